package services

import (
	"regexp"
	"strings"

	"adminpanel/internal/domain"
)

var pinRegexp = regexp.MustCompile(`^\d{4}$`)

// problems collects validation messages for one input.
type problems []string

func (p *problems) required(value, msg string) {
	if strings.TrimSpace(value) == "" {
		*p = append(*p, msg)
	}
}

func (p *problems) check(ok bool, msg string) {
	if !ok {
		*p = append(*p, msg)
	}
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return &domain.ValidationError{Problems: p}
}
