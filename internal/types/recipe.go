package types

// Recipe represents a recipe as it is returned to clients
type Recipe struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
}

// Clone returns a copy of the recipe that shares no memory with r
func (r Recipe) Clone() Recipe {
	out := r
	if r.Ingredients != nil {
		out.Ingredients = append(make([]string, 0, len(r.Ingredients)), r.Ingredients...)
	}
	return out
}
