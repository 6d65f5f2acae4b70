package handlers

import (
	"net/http"

	"meewadmin/internal/stats"
)

// SalesByCategory returns each category's share of order revenue.
func (a *API) SalesByCategory(w http.ResponseWriter, r *http.Request) {
	lines, err := a.Stats.SalesLines(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.SalesByCategory(lines))
}

// ShipmentStats returns shipment counts per status and their shares.
func (a *API) ShipmentStats(w http.ResponseWriter, r *http.Request) {
	shipments, err := a.Stats.Shipments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.ShipmentStats(shipments))
}
