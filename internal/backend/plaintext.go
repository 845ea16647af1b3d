package backend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bndr/gotabulate"

	"github.com/griffnb/jaxdoc/internal/domain"
)

// PlainText renders a terminal-friendly overview table of the REST surface.
type PlainText struct{}

// NewPlainText creates the plain-text backend.
func NewPlainText() *PlainText {
	return &PlainText{}
}

// Name implements Backend.
func (b *PlainText) Name() string { return "plaintext" }

// Render implements Backend.
func (b *PlainText) Render(resources *domain.Resources) ([]byte, error) {
	if len(resources.Entries) == 0 {
		return []byte(fmt.Sprintf("base path: %s\nno resources found\n", resources.ApplicationPath)), nil
	}

	rows := make([][]interface{}, 0, len(resources.Entries))
	for i := range resources.Entries {
		entry := &resources.Entries[i]
		rows = append(rows, []interface{}{
			entry.Verb,
			entry.Template,
			strings.Join(entry.RequestMediaTypes, ", "),
			strings.Join(entry.ResponseMediaTypes, ", "),
			formatResponses(entry.Responses),
		})
	}

	table := gotabulate.Create(rows)
	table.SetHeaders([]string{"Verb", "Template", "Consumes", "Produces", "Responses"})
	table.SetAlign("left")
	table.SetWrapStrings(true)
	table.SetMaxCellSize(60)

	return []byte(fmt.Sprintf("base path: %s\n%s", resources.ApplicationPath, table.Render("grid"))), nil
}

func formatResponses(responses []*domain.HttpResponse) string {
	var parts []string
	for _, response := range responses {
		for _, status := range response.SortedStatuses() {
			part := strconv.Itoa(status)
			if response.EntityType != "" {
				part += " [" + simpleTypeName(response.EntityType) + "]"
			}
			if headers := response.SortedHeaders(); len(headers) > 0 {
				part += " (" + strings.Join(headers, ", ") + ")"
			}
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "; ")
}
