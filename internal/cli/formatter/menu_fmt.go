package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

// FormatMenu renders a menu as a title line followed by one table per
// section.
func FormatMenu(m domain.GeneratedMenu) string {
	var b strings.Builder

	b.WriteString(Header(m.Title))
	b.WriteString("\n")
	meta := []string{Bold(FormatMinutes(m.TotalTime))}
	if m.Intensity != "" {
		meta = append(meta, intensityLabel(m.Intensity))
	}
	if len(m.TargetSkills) > 0 {
		meta = append(meta, Dim(strings.Join(m.TargetSkills, ", ")))
	}
	b.WriteString(strings.Join(meta, Dim(" · ")))
	b.WriteString("\n")

	for _, s := range m.Sections {
		b.WriteString("\n")
		b.WriteString(RoleStyle(s.ResolvedRole()).Render(s.Name))
		b.WriteString(Dim(fmt.Sprintf("  %s", FormatMinutes(s.TotalTime))))
		b.WriteString("\n")

		rows := make([][]string, 0, len(s.Items))
		for _, it := range s.Items {
			desc := it.Description
			if it.Notes != "" {
				desc += " " + Dim("("+it.Notes+")")
			}
			rows = append(rows, []string{
				it.Distance + "m",
				"x" + strconv.Itoa(it.Sets),
				"@" + it.Circle,
				desc,
				it.Equipment,
				FormatMinutes(it.Time),
			})
		}
		b.WriteString(RenderTable(
			[]string{"DIST", "SETS", "CIRCLE", "DRILL", "GEAR", "TIME"},
			rows,
			AlignRight, AlignRight, AlignLeft, AlignLeft, AlignLeft, AlignRight,
		))
	}
	return b.String()
}

// FormatGenerated renders a freshly generated menu with its ID and a
// warning when it still runs longer than requested.
func FormatGenerated(id string, m domain.GeneratedMenu, converged bool, requested int) string {
	var b strings.Builder
	b.WriteString(FormatMenu(m))
	b.WriteString("\n")
	if !converged && m.TotalTime > requested {
		b.WriteString(StyleYellow.Render(fmt.Sprintf("! menu runs %s, over the requested %s",
			FormatMinutes(m.TotalTime), FormatMinutes(requested))))
		b.WriteString("\n")
	}
	if id != "" {
		b.WriteString(Dim("saved as ") + id + "\n")
	}
	return b.String()
}

// FormatRecord renders a stored menu with the request that produced it.
func FormatRecord(rec *domain.MenuRecord) string {
	var b strings.Builder
	b.WriteString(FormatMenu(rec.Menu))
	b.WriteString("\n")

	req := []string{
		LoadBadge(rec.LoadLevels),
		fmt.Sprintf("requested %s", FormatMinutes(rec.RequestedDuration)),
		string(rec.Provider),
		HumanTimestamp(rec.CreatedAt),
	}
	b.WriteString(Dim(rec.ID) + "  " + strings.Join(req, Dim(" · ")) + "\n")
	if rec.Notes != "" {
		b.WriteString(Dim("notes: ") + rec.Notes + "\n")
	}
	return b.String()
}

// FormatMenuList renders stored menus as a table, newest first.
func FormatMenuList(recs []*domain.MenuRecord) string {
	if len(recs) == 0 {
		return Dim("No menus stored yet. Run 'swimmenu generate' to create one.") + "\n"
	}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			Dim(r.ID),
			Truncate(r.Metadata.Title, 40),
			FormatMinutes(r.Metadata.TotalTime),
			LoadBadge(r.LoadLevels),
			string(r.Provider),
			HumanTimestamp(r.CreatedAt),
		})
	}
	return RenderTable(
		[]string{"ID", "TITLE", "TIME", "LOAD", "PROVIDER", "CREATED"},
		rows,
		AlignLeft, AlignLeft, AlignRight,
	)
}

// FormatSearchHits renders similarity search results, best first.
func FormatSearchHits(hits []domain.RetrievalHit) string {
	if len(hits) == 0 {
		return Dim("No similar menus found.") + "\n"
	}
	rows := make([][]string, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, []string{
			Similarity(h.Similarity),
			Dim(h.ID),
			Truncate(h.Metadata.Title, 40),
			FormatMinutes(h.Metadata.TotalTime),
			h.Metadata.Intensity,
		})
	}
	return RenderTable(
		[]string{"MATCH", "ID", "TITLE", "TIME", "INTENSITY"},
		rows,
		AlignRight, AlignLeft, AlignLeft, AlignRight,
	)
}

func intensityLabel(s string) string {
	l := domain.LoadLevel(strings.ToLower(s))
	if l.Valid() {
		return LoadStyle(l).Render(s)
	}
	return StyleFg.Render(s)
}
