package gql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/vypar/pkg/response"
)

// NewHandler serves POST /graphql with {"query": ..., "variables": ...}.
func NewHandler(db *gorm.DB) (http.HandlerFunc, error) {
	schema, err := NewSchema(db)
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if body.Query == "" {
			response.Error(w, http.StatusBadRequest, "missing query")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}, nil
}
