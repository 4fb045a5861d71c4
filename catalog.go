package orchestrator

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ArgSpec describes a single tool argument.
type ArgSpec struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"-"`
	Default     any    `json:"default,omitempty"`
}

// ToolSpec describes a tool the model may request. The catalog is the only
// source of dispatchable names; anything else is rejected at dispatch time.
type ToolSpec struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Args        map[string]ArgSpec `json:"-"`
}

// Schema renders the argument specs as a JSON-Schema-shaped object, the
// format the prompt builder and the /tools endpoint expose.
func (s ToolSpec) Schema() map[string]any {
	properties := make(map[string]any, len(s.Args))
	var required []string
	for name, arg := range s.Args {
		prop := map[string]any{"type": arg.Type}
		if arg.Description != "" {
			prop["description"] = arg.Description
		}
		if arg.Default != nil {
			prop["default"] = arg.Default
		}
		properties[name] = prop
		if arg.Required {
			required = append(required, name)
		}
	}
	sort.Strings(required)
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Catalog is an in-memory, registration-ordered set of tool specs. It is
// populated at startup and read-only afterwards.
type Catalog struct {
	mu    sync.RWMutex
	specs map[string]ToolSpec
	order []string
}

// NewCatalog constructs a catalog seeded with the provided specs.
func NewCatalog(specs ...ToolSpec) (*Catalog, error) {
	catalog := &Catalog{specs: make(map[string]ToolSpec)}
	for _, spec := range specs {
		if err := catalog.Register(spec); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// Register adds a spec under a lower-cased key. Duplicate names return an error.
func (c *Catalog) Register(spec ToolSpec) error {
	key := strings.ToLower(strings.TrimSpace(spec.Name))
	if key == "" {
		return fmt.Errorf("tool name is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.specs[key]; exists {
		return fmt.Errorf("tool %s already registered", spec.Name)
	}
	c.specs[key] = spec
	c.order = append(c.order, key)
	return nil
}

// Lookup returns the spec for a name if present.
func (c *Catalog) Lookup(name string) (ToolSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	spec, ok := c.specs[strings.ToLower(strings.TrimSpace(name))]
	return spec, ok
}

// Specs returns a snapshot of the specs in registration order.
func (c *Catalog) Specs() []ToolSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()

	specs := make([]ToolSpec, 0, len(c.order))
	for _, key := range c.order {
		specs = append(specs, c.specs[key])
	}
	return specs
}

// DefaultCatalog returns the catalog of profile and transaction lookup tools
// served by the reference tool backend.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog(
		ToolSpec{
			Name:        "get_profile",
			Description: "Get user profile details from the database by user ID. Use this when user asks about profile information, user details, or needs to lookup someone's information.",
			Args: map[string]ArgSpec{
				"user_id": {
					Type:        "string",
					Description: "The unique user ID (e.g., 'U001', 'U002', 'U003')",
					Required:    true,
				},
			},
		},
		ToolSpec{
			Name:        "get_transactions",
			Description: "Get all transactions for a specific user. Use when user asks about transaction history, spending, or financial activity.",
			Args: map[string]ArgSpec{
				"user_id": {
					Type:        "string",
					Description: "The user ID to get transactions for (e.g., 'U001', 'U002', 'U003')",
					Required:    true,
				},
				"limit": {
					Type:        "integer",
					Description: "Maximum number of transactions to return (default: 10)",
					Default:     10,
				},
			},
		},
		ToolSpec{
			Name:        "get_transaction_summary",
			Description: "Get summary statistics of transactions for a user. Use when user asks for financial summary, spending overview, or transaction analytics.",
			Args: map[string]ArgSpec{
				"user_id": {
					Type:        "string",
					Description: "The user ID to get transaction summary for (e.g., 'U001', 'U002', 'U003')",
					Required:    true,
				},
			},
		},
		ToolSpec{
			Name:        "search_transactions",
			Description: "Search transactions with various filters. Use when user asks for specific transactions by category, amount range, date range, or type.",
			Args: map[string]ArgSpec{
				"user_id": {
					Type:        "string",
					Description: "Filter by user ID (optional). If not specified, search across all users.",
				},
				"category": {
					Type:        "string",
					Description: "Filter by category (e.g., 'food', 'shopping', 'travel')",
				},
				"min_amount": {
					Type:        "number",
					Description: "Minimum transaction amount (e.g., 50)",
				},
				"max_amount": {
					Type:        "number",
					Description: "Maximum transaction amount (e.g., 500)",
				},
				"start_date": {
					Type:        "string",
					Description: "Start date in YYYY-MM-DD format",
				},
				"end_date": {
					Type:        "string",
					Description: "End date in YYYY-MM-DD format",
				},
				"transaction_type": {
					Type:        "string",
					Description: "Transaction type ('credit' or 'debit')",
				},
				"limit": {
					Type:        "integer",
					Description: "Maximum results to return (default: 20)",
					Default:     20,
				},
			},
		},
	)
	if err != nil {
		// The built-in specs are static; a registration failure is a bug.
		panic(err)
	}
	return catalog
}
