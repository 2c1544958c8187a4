package cpe

import (
	"errors"
	"strings"
)

// ParseName parses a CPE name in any supported encoding, selecting the
// grammar by prefix. Text without a recognizable prefix is tried against
// every grammar; the aggregate error carries each rejection.
func ParseName(s string) (*Name, error) {
	switch {
	case strings.HasPrefix(s, wfnPrefix):
		return ParseWFN(s)
	case strings.HasPrefix(s, fsPrefix):
		return ParseFS(s)
	case strings.HasPrefix(s, cpe11Prefix):
		return Parse11(s)
	case strings.HasPrefix(s, uriPrefix):
		return ParseURI(s)
	}
	var errs []error
	for _, parse := range []func(string) (*Name, error){ParseFS, ParseURI, Parse11, ParseWFN} {
		n, err := parse(s)
		if err == nil {
			return n, nil
		}
		errs = append(errs, err)
	}
	return nil, &InvalidFormatError{
		Text:   s,
		Reason: "no CPE grammar accepted the name",
		err:    errors.Join(errs...),
	}
}
