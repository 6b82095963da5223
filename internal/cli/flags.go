package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/planline/internal/domain"
	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

// relationFlag is a pflag.Value accepting FS|SS|FF|SF or the long names.
type relationFlag struct {
	kind domain.RelationKind
}

var _ pflag.Value = (*relationFlag)(nil)

func newRelationFlag(def domain.RelationKind) *relationFlag {
	return &relationFlag{kind: def}
}

func (f *relationFlag) String() string { return f.kind.Short() }

func (f *relationFlag) Set(s string) error {
	k, err := domain.ParseRelationKind(s)
	if err != nil {
		return err
	}
	f.kind = k
	return nil
}

func (f *relationFlag) Type() string { return "relation" }

// dateFlag is a pflag.Value for an optional YYYY-MM-DD date.
type dateFlag struct {
	t *time.Time
}

var _ pflag.Value = (*dateFlag)(nil)

func (f *dateFlag) String() string {
	if f.t == nil {
		return ""
	}
	return f.t.Format(dateLayout)
}

func (f *dateFlag) Set(s string) error {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	f.t = &t
	return nil
}

func (f *dateFlag) Type() string { return "date" }

// Value returns the parsed date or nil when the flag was not given.
func (f *dateFlag) Value() *time.Time { return f.t }
