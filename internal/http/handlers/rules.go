package handlers

import (
	"net/http"

	"github.com/labstack/echo/v5"
)

type ruleItem struct {
	ID          string   `json:"id"`
	AssetTypes  []string `json:"asset_types"`
	Severity    string   `json:"severity"`
	Category    string   `json:"category"`
	Citation    string   `json:"hipaa_section"`
	Title       string   `json:"title"`
	Remediation []string `json:"remediation_steps"`
}

// HandleListRules returns the rule library metadata in registration order.
func (h *Handlers) HandleListRules(c *echo.Context) error {
	rules := h.Library.Rules()
	items := make([]ruleItem, 0, len(rules))
	for _, r := range rules {
		items = append(items, ruleItem{
			ID:          r.ID,
			AssetTypes:  r.AssetTypes,
			Severity:    string(r.Severity),
			Category:    string(r.Category),
			Citation:    r.Citation,
			Title:       r.Title,
			Remediation: r.Remediation,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"rules": items})
}
