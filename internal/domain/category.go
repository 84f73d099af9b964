package domain

import "time"

// Category is a node in the catalog hierarchy. Ancestors holds every
// transitive parent from root to immediate parent, in order; Level is the
// depth with roots at 0. Both are derived from Parent and rewritten whenever
// the node (or an ancestor of it) is re-parented.
type Category struct {
	CategoryID  string   `json:"id" dynamodbav:"category_id"`
	Name        string   `json:"name" dynamodbav:"name"`
	Slug        string   `json:"slug" dynamodbav:"slug"`
	Description string   `json:"description,omitempty" dynamodbav:"description"`
	Parent      *string  `json:"parent,omitempty" dynamodbav:"parent"`
	Ancestors   []string `json:"ancestors" dynamodbav:"ancestors"`
	Level       int      `json:"level" dynamodbav:"level"`
	IsActive    bool     `json:"is_active" dynamodbav:"is_active"`

	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// CategoryNode is a category with its children resolved, as returned by the
// tree endpoint.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}

// CategoryStats is the aggregate view returned by the statistics endpoint.
type CategoryStats struct {
	ProductCount     int        `json:"product_count"`
	SubcategoryCount int        `json:"subcategory_count"`
	Level            int        `json:"level"`
	Path             []Category `json:"path"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description string  `json:"description" validate:"max=500"`
	Parent      *string `json:"parent"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

type MoveCategoryRequest struct {
	NewParent *string `json:"new_parent"`
}
