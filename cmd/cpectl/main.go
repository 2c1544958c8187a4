package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PhucNguyen204/cpe_engine/cpe"
	"github.com/PhucNguyen204/cpe_engine/cpelang"
	"github.com/PhucNguyen204/cpe_engine/internal/dict"
)

var (
	flagTarget string
	flagDict   string
	flagDoc    string
)

var rootCmd = &cobra.Command{
	Use:   "cpectl",
	Short: "CPE name conversion and matching",
	Long: `cpectl parses CPE names in any encoding (WFN, URI, formatted string,
1.1), converts between encodings, and matches names and applicability
documents against a dictionary of known instances.`,
}

var convertCmd = &cobra.Command{
	Use:   "convert <name>",
	Short: "Re-encode a CPE name",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var matchCmd = &cobra.Command{
	Use:   "match <name>",
	Short: "Match a candidate name against a dictionary",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatch,
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate an applicability document against a dictionary",
	Args:  cobra.NoArgs,
	RunE:  runEval,
}

func init() {
	convertCmd.Flags().StringVarP(&flagTarget, "to", "t", "wfn", "Target encoding: wfn, uri, fs or 1.1")
	matchCmd.Flags().StringVarP(&flagDict, "dict", "d", ".", "Dictionary directory (.txt name lists)")
	evalCmd.Flags().StringVarP(&flagDict, "dict", "d", ".", "Dictionary directory (.txt name lists)")
	evalCmd.Flags().StringVar(&flagDoc, "doc", "", "Applicability document (.xml, .json, .yml)")
	_ = evalCmd.MarkFlagRequired("doc")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(evalCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	n, err := cpe.ParseName(args[0])
	if err != nil {
		return err
	}
	var bound string
	switch flagTarget {
	case "wfn":
		bound, err = n.WFN()
	case "uri":
		bound, err = n.URI()
	case "fs":
		bound, err = n.FS()
	case "1.1":
		bound, err = n.URI11()
	default:
		return fmt.Errorf("unknown target encoding %q", flagTarget)
	}
	if err != nil {
		return err
	}
	fmt.Println(bound)
	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	n, err := cpe.ParseName(args[0])
	if err != nil {
		return err
	}
	res, err := dict.LoadDir(flagDict)
	if err != nil {
		return err
	}
	fmt.Println(res.Known.NameMatch(n))
	return nil
}

func runEval(cmd *cobra.Command, args []string) error {
	res, err := dict.LoadDir(flagDict)
	if err != nil {
		return err
	}
	doc, err := loadDoc(flagDoc)
	if err != nil {
		return err
	}
	fmt.Println(doc.Match(res.Known))
	return nil
}

func loadDoc(path string) (*cpelang.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return cpelang.ParseXML(b)
	case ".json":
		return cpelang.ParseJSON(b)
	case ".yml", ".yaml":
		return cpelang.ParseYAML(b)
	}
	return nil, fmt.Errorf("unsupported document extension %q", filepath.Ext(path))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
