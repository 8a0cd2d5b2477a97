package records

import (
	"strings"

	"github.com/dalemusser/civichub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/civichub/internal/app/system/inputval"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
)

// Field describes one editable field of a record kind.
type Field struct {
	Name  string // form and BSON name
	Label string
	Rules string // validator tags, e.g. "required,max=200"

	// Enum closes the field to these values. An empty submission takes Default.
	Enum    []string
	Default string

	Fold      bool // keep a folded <name>_ci companion for search and indexes
	HTML      bool // sanitize as rich text
	Multiline bool
	Unique    bool // backed by a unique index; named in ConflictError
}

// Required reports whether the field's rules demand a value.
func (f Field) Required() bool {
	for _, r := range strings.Split(f.Rules, ",") {
		if r == "required" {
			return true
		}
	}
	return false
}

// Kind is the descriptor that configures the generic store and handlers for
// one record type.
type Kind struct {
	Name       string // singular, lower case: "worker"
	Label      string // "Worker"
	Plural     string // "Workers"
	Collection string

	TitleField  string
	SearchField string
	Fields      []Field

	// Attachment kinds require an image at creation.
	Attachment bool
	// NewestFirst orders the index and owner listings by created_at
	// descending instead of insertion order.
	NewestFirst bool
	// IndexNewest orders only the index newest first; owner listings keep
	// insertion order.
	IndexNewest bool
}

// Field returns the field called name.
func (k Kind) Field(name string) (Field, bool) {
	for _, f := range k.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (k Kind) uniqueField() string {
	for _, f := range k.Fields {
		if f.Unique {
			return f.Name
		}
	}
	return ""
}

// Normalize turns submitted values into the document fields to $set. Only
// the kind's own fields are read, so owner and timestamps can never be
// written through it. Empty optional folded fields go to unset so that sparse
// unique indexes do not see them.
func (k Kind) Normalize(values map[string]string) (set bson.M, unset bson.M, err error) {
	set = bson.M{}
	unset = bson.M{}

	for _, f := range k.Fields {
		v := strings.TrimSpace(values[f.Name])
		if f.HTML {
			v = strings.TrimSpace(htmlsanitize.Sanitize(v))
		}

		if len(f.Enum) > 0 {
			if v == "" {
				v = f.Default
			}
			if msg, ok := inputval.Var(f.Label, v, "oneof="+strings.Join(f.Enum, " ")); !ok {
				return nil, nil, &ValidationError{Field: f.Name, Msg: msg}
			}
		}

		if msg, ok := inputval.Var(f.Label, v, f.Rules); !ok {
			return nil, nil, &ValidationError{Field: f.Name, Msg: msg}
		}

		set[f.Name] = v
		if f.Fold {
			if v == "" {
				unset[f.Name+"_ci"] = ""
			} else {
				set[f.Name+"_ci"] = text.Fold(v)
			}
		}
	}
	return set, unset, nil
}
