package records

import "github.com/dalemusser/civichub/internal/domain/models"

// Workers is staff tracked by an administrator. A worker's email is unique
// per owner when present.
var Workers = Kind{
	Name:        "worker",
	Label:       "Worker",
	Plural:      "Workers",
	Collection:  "workers",
	TitleField:  "name",
	SearchField: "name",
	Attachment:  true,
	Fields: []Field{
		{Name: "name", Label: "Name", Rules: "required,max=200", Fold: true},
		{Name: "email", Label: "Email", Rules: "omitempty,max=254,mailaddr", Fold: true, Unique: true},
		{Name: "phone", Label: "Phone", Rules: "max=50"},
		{Name: "position", Label: "Position", Enum: models.WorkerPositions, Default: models.DefaultWorkerPosition},
		{Name: "salary", Label: "Salary", Rules: "max=50"},
	},
}

var Projects = Kind{
	Name:        "project",
	Label:       "Project",
	Plural:      "Projects",
	Collection:  "projects",
	TitleField:  "title",
	SearchField: "title",
	Attachment:  true,
	IndexNewest: true,
	Fields: []Field{
		{Name: "title", Label: "Title", Rules: "required,max=200", Fold: true},
		{Name: "body", Label: "Description", Rules: "required,max=20000", HTML: true, Multiline: true},
		{Name: "category", Label: "Category", Enum: models.ProjectCategories, Default: models.DefaultProjectCategory},
	},
}

var Investments = Kind{
	Name:        "investment",
	Label:       "Investment",
	Plural:      "Investments",
	Collection:  "investments",
	TitleField:  "title",
	SearchField: "title",
	Attachment:  true,
	NewestFirst: true,
	Fields: []Field{
		{Name: "title", Label: "Title", Rules: "required,max=200", Fold: true},
		{Name: "body", Label: "Description", Rules: "max=20000", HTML: true, Multiline: true},
		{Name: "amount", Label: "Amount", Rules: "max=50"},
		{Name: "investor", Label: "Investor", Rules: "max=200"},
	},
}

// News items have no image.
var News = Kind{
	Name:        "news",
	Label:       "News",
	Plural:      "News",
	Collection:  "news",
	TitleField:  "title",
	SearchField: "title",
	Fields: []Field{
		{Name: "title", Label: "Title", Rules: "required,max=200", Fold: true},
		{Name: "body", Label: "Body", Rules: "required,max=20000", HTML: true, Multiline: true},
	},
}
