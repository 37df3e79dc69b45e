package cli

import (
	"github.com/alexanderramin/projman/internal/domain"
	"github.com/spf13/pflag"
)

// statusValue is a pflag.Value that accepts status labels leniently
// ("in-progress", "In Progress") and stores the canonical form.
type statusValue struct {
	status *domain.Status
}

var _ pflag.Value = (*statusValue)(nil)

func newStatusValue(def domain.Status, p *domain.Status) *statusValue {
	*p = def
	return &statusValue{status: p}
}

func (v *statusValue) String() string {
	if v.status == nil {
		return ""
	}
	return string(*v.status)
}

func (v *statusValue) Set(s string) error {
	st, err := domain.ParseStatus(s)
	if err != nil {
		return err
	}
	*v.status = st
	return nil
}

func (v *statusValue) Type() string { return "status" }

// addStatusFlag registers --status on fs with def as the default.
func addStatusFlag(fs *pflag.FlagSet, p *domain.Status, def domain.Status) {
	fs.Var(newStatusValue(def, p), "status", "Status: "+domain.StatusLabels())
}
