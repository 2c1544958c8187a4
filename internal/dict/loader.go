// Package dict loads CPE dictionaries and applicability documents from the
// filesystem.
package dict

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/PhucNguyen204/cpe_engine/cpe"
	"github.com/PhucNguyen204/cpe_engine/cpelang"
	"github.com/PhucNguyen204/cpe_engine/matching"
)

// Result of a directory load: the known set assembled from every name list,
// the applicability documents found next to them, and skip accounting.
type Result struct {
	Known   *matching.Set
	Docs    []*cpelang.Document
	Loaded  int
	Skipped int
}

// LoadDir walks root recursively. ".txt" files are name lists (one name per
// line, '#' comments); ".xml", ".json", ".yml" and ".yaml" files are
// applicability documents. Malformed files are skipped and counted, the walk
// keeps going.
func LoadDir(root string) (*Result, error) {
	res := &Result{Known: matching.NewSet()}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".txt":
			if err := loadNameList(p, res.Known); err != nil {
				res.Skipped++
				return nil
			}
		case ".xml", ".json", ".yml", ".yaml":
			doc, err := loadDocument(p)
			if err != nil {
				res.Skipped++
				return nil
			}
			res.Docs = append(res.Docs, doc)
		default:
			return nil
		}
		res.Loaded++
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", root)
	}
	return res, nil
}

func loadNameList(path string, known *matching.Set) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		n, err := cpe.ParseName(line)
		if err != nil {
			return errors.Wrapf(err, "parse %s", path)
		}
		known.Add(n)
	}
	return errors.Wrapf(sc.Err(), "read %s", path)
}

func loadDocument(path string) (*cpelang.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var doc *cpelang.Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		doc, err = cpelang.ParseXML(b)
	case ".json":
		doc, err = cpelang.ParseJSON(b)
	default:
		doc, err = cpelang.ParseYAML(b)
	}
	return doc, errors.Wrapf(err, "parse %s", path)
}
