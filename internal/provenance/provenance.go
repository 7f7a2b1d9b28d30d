// Package provenance identifies the notebook entry a set of records belongs
// to. Builders stamp the keeper email and entry date onto every run source.
package provenance

import (
	"fmt"
	"io"
	"strings"
	"time"

	"labbook/internal/config"
	"labbook/internal/entity"
	"labbook/internal/faults"
)

const component = "provenance"

// DateLayout is the entry date format.
const DateLayout = "2006-01-02"

// Provenance describes one notebook entry.
type Provenance struct {
	Keeper string // full name of the notebook keeper
	Email  string
	Tag    string // usually the keeper's initials
	Page   string // four digit BPPP page number
	Title  string
	Date   string // yyyy-mm-dd
}

// Default returns the placeholder entry dated now.
func Default(now time.Time) Provenance {
	return Provenance{
		Keeper: "User Name",
		Email:  "user@domain.edu",
		Tag:    "TAG",
		Page:   "0000",
		Title:  "Entry Title",
		Date:   now.Format(DateLayout),
	}
}

// FromConfig fills unset notebook fields from Default.
func FromConfig(nb config.Notebook, now time.Time) Provenance {
	p := Default(now)
	if nb.Keeper != "" {
		p.Keeper = nb.Keeper
	}
	if nb.Email != "" {
		p.Email = nb.Email
	}
	if nb.Tag != "" {
		p.Tag = nb.Tag
	}
	if nb.Page != "" {
		p.Page = nb.Page
	}
	if nb.Title != "" {
		p.Title = nb.Title
	}
	return p
}

// Validate checks the fields copied onto run sources and the page format.
func (p Provenance) Validate() error {
	if strings.TrimSpace(p.Keeper) == "" {
		return faults.Wrap(faults.ErrValidation, component, "validate", "keeper is empty", nil)
	}
	if err := entity.ValidateEmail(p.Email); err != nil {
		return err
	}
	if _, err := time.Parse(DateLayout, p.Date); err != nil {
		return faults.Wrap(faults.ErrValidation, component, "validate", fmt.Sprintf("date %q is not yyyy-mm-dd", p.Date), err)
	}
	if len(p.Page) != 4 || strings.Trim(p.Page, "0123456789") != "" {
		return faults.Wrap(faults.ErrValidation, component, "validate", fmt.Sprintf("page %q is not a four digit page number", p.Page), nil)
	}
	return nil
}

// Header writes the entry header, one field per line.
func (p Provenance) Header(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n%s\n%s\n%s\n", p.Keeper, p.Email, p.Tag, p.Page, p.Title, p.Date)
	return err
}
