package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/swimmenu/internal/domain"
	"github.com/alexanderramin/swimmenu/internal/export"
)

// loadLevelsFlag accepts repeated or comma-separated load levels and
// keeps them normalized in canonical order.
type loadLevelsFlag struct {
	levels []domain.LoadLevel
}

func (f *loadLevelsFlag) String() string {
	return domain.LoadLabel(f.levels)
}

func (f *loadLevelsFlag) Set(s string) error {
	raw := make([]string, 0, len(f.levels)+1)
	for _, l := range f.levels {
		raw = append(raw, string(l))
	}
	raw = append(raw, strings.Split(s, ",")...)
	levels, err := domain.ParseLoadLevels(raw)
	if err != nil {
		return err
	}
	f.levels = levels
	return nil
}

func (f *loadLevelsFlag) Type() string { return "levels" }

func (f *loadLevelsFlag) values() []string {
	out := make([]string, len(f.levels))
	for i, l := range f.levels {
		out[i] = string(l)
	}
	return out
}

// formatFlag validates an export format at parse time.
type formatFlag struct {
	format export.Format
}

func (f *formatFlag) String() string { return string(f.format) }

func (f *formatFlag) Set(s string) error {
	format, err := export.ParseFormat(s)
	if err != nil {
		return err
	}
	f.format = format
	return nil
}

func (f *formatFlag) Type() string { return "format" }

var (
	_ pflag.Value = (*loadLevelsFlag)(nil)
	_ pflag.Value = (*formatFlag)(nil)
)
