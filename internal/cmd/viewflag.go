package cmd

import (
	"github.com/spf13/pflag"

	"github.com/ganot/project-sentry/internal/domain/dashboard"
)

var _ pflag.Value = (*viewValue)(nil)

// viewValue is a pflag.Value accepting only known view identifiers.
type viewValue struct {
	view dashboard.View
}

func (v *viewValue) String() string {
	return string(v.view)
}

func (v *viewValue) Set(raw string) error {
	parsed, err := dashboard.ParseView(raw)
	if err != nil {
		return err
	}
	v.view = parsed
	return nil
}

func (v *viewValue) Type() string {
	return "view"
}
