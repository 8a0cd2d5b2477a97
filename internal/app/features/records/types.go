// internal/app/features/records/types.go
package records

import (
	"html/template"

	"github.com/dalemusser/civichub/internal/app/policy/recordpolicy"
	"github.com/dalemusser/civichub/internal/app/system/authz"
	"github.com/dalemusser/civichub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/civichub/internal/app/system/viewdata"
)

// fieldView is one labelled value on a list row or show page.
type fieldView struct {
	Label  string
	Value  string
	HTML   template.HTML
	IsHTML bool
}

// recordRow is a record as the templates see it.
type recordRow struct {
	ID       string
	Title    string
	OwnerID  string
	Created  string
	HasImage bool
	ImageURL string
	Fields   []fieldView

	CanEdit   bool
	CanDelete bool
}

// listData backs records_index: the full list, an owner's list, "mine" and
// search results.
type listData struct {
	viewdata.BaseVM

	KindLabel  string
	KindPlural string
	Prefix     string
	Heading    string
	Query      string
	HasImages  bool
	CanCreate  bool
	CanSearch  bool
	Rows       []recordRow
}

// showData backs records_show.
type showData struct {
	viewdata.BaseVM

	KindLabel string
	Prefix    string
	Record    recordRow
}

// formField is one input on the add/edit form.
type formField struct {
	Name      string
	Label     string
	Value     string
	Options   []string
	Required  bool
	Multiline bool
	RichText  bool
}

// formData backs records_form for both add and edit.
type formData struct {
	viewdata.BaseVM

	KindLabel  string
	Prefix     string
	Action     string
	IsEdit     bool
	ID         string
	Fields     []formField
	Attachment bool
	ImageURL   string
	Return     string
}

// buildRow turns a record into its template row, deciding which actions
// the identity may see.
func (h *Handler[T]) buildRow(id authz.Identity, rec T) recordRow {
	values := rec.FieldValues()
	row := recordRow{
		ID:      rec.RecordID().Hex(),
		Title:   rec.RecordTitle(),
		OwnerID: rec.RecordOwner().Hex(),
		Created: rec.RecordCreatedAt().Format("Jan 2, 2006"),
	}
	if h.Kind.Attachment && !rec.RecordImage().IsZero() {
		row.HasImage = true
		row.ImageURL = h.Prefix + "/" + row.ID + "/image"
	}
	for _, f := range h.Kind.Fields {
		if f.Name == h.Kind.TitleField {
			continue
		}
		fv := fieldView{Label: f.Label, Value: values[f.Name]}
		if f.HTML {
			fv.IsHTML = true
			fv.HTML = htmlsanitize.PrepareForDisplay(values[f.Name])
		}
		row.Fields = append(row.Fields, fv)
	}

	owner := rec.RecordOwner()
	row.CanEdit = recordpolicy.Allows(id, h.Table.Edit.Access) && recordpolicy.CanAct(id, h.Table.Edit, owner)
	row.CanDelete = recordpolicy.Allows(id, h.Table.Delete.Access) && recordpolicy.CanAct(id, h.Table.Delete, owner)
	return row
}

// buildFields fills the form inputs from values, offering enum options.
func (h *Handler[T]) buildFields(values map[string]string) []formField {
	out := make([]formField, 0, len(h.Kind.Fields))
	for _, f := range h.Kind.Fields {
		v := values[f.Name]
		if v == "" && f.Default != "" {
			v = f.Default
		}
		out = append(out, formField{
			Name:      f.Name,
			Label:     f.Label,
			Value:     v,
			Options:   f.Enum,
			Required:  f.Required(),
			Multiline: f.Multiline,
			RichText:  f.HTML,
		})
	}
	return out
}

// rowsFor builds every row of a listing.
func (h *Handler[T]) rowsFor(id authz.Identity, recs []T) []recordRow {
	rows := make([]recordRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, h.buildRow(id, rec))
	}
	return rows
}

// listVM prepares records_index for a listing titled heading.
func (h *Handler[T]) listVM(base viewdata.BaseVM, id authz.Identity, heading string, recs []T) listData {
	return listData{
		BaseVM:     base,
		KindLabel:  h.Kind.Label,
		KindPlural: h.Kind.Plural,
		Prefix:     h.Prefix,
		Heading:    heading,
		HasImages:  h.Kind.Attachment,
		CanCreate:  recordpolicy.Allows(id, h.Table.Add.Access),
		CanSearch:  recordpolicy.Allows(id, h.Table.Search.Access),
		Rows:       h.rowsFor(id, recs),
	}
}
