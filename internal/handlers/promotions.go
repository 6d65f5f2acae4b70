// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"slices"

	"meewadmin/internal/cache"
	"meewadmin/internal/models"
	"meewadmin/internal/ordering"
	"meewadmin/internal/persist"
	"meewadmin/internal/priority"
	"meewadmin/internal/validity"
)

const (
	collectionPopups       = "popups"
	collectionBanners      = "banners"
	collectionCoupons      = "coupons"
	collectionFreeShipping = "free_shipping_windows"
)

type popupView struct {
	models.Popup
	State validity.Classification `json:"state"`
}

type bannerView struct {
	models.Banner
	State validity.Classification `json:"state"`
}

type couponView struct {
	models.Coupon
	State validity.Classification `json:"state"`
}

// stateFilter parses the optional ?state= list. Empty means every state.
func stateFilter(r *http.Request) ([]validity.Classification, error) {
	states, err := validity.ParseClassifications(r.URL.Query().Get("state"))
	if err != nil {
		return nil, badRequest("%v", err)
	}
	if len(states) == 0 {
		states = []validity.Classification{validity.Disabled, validity.Scheduled, validity.Current, validity.Expired}
	}
	return states, nil
}

// ActivePopup returns the popup the app shows right now, or 204 when no
// popup is current.
func (a *API) ActivePopup(w http.ResponseWriter, r *http.Request) {
	popups, err := cached(r.Context(), a.Cache, cache.QueryKey(collectionPopups), a.Promotions.ListPopups)
	if err != nil {
		writeError(w, r, err)
		return
	}
	winner, ok := priority.SelectWinner(popups, a.now())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, popupView{Popup: winner, State: validity.Current})
}

// RankedPopups returns the current popups in the order the app falls back
// through them: the winner first, then by priority and recency.
func (a *API) RankedPopups(w http.ResponseWriter, r *http.Request) {
	popups, err := cached(r.Context(), a.Cache, cache.QueryKey(collectionPopups), a.Promotions.ListPopups)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := []popupView{}
	for _, p := range priority.SortByRank(popups, a.now()) {
		out = append(out, popupView{Popup: p, State: validity.Current})
	}
	writeJSON(w, http.StatusOK, out)
}

// ListPopups returns popups in display order, filtered by ?state=.
func (a *API) ListPopups(w http.ResponseWriter, r *http.Request) {
	states, err := stateFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	popups, err := cached(r.Context(), a.Cache, cache.QueryKey(collectionPopups), a.Promotions.ListPopups)
	if err != nil {
		writeError(w, r, err)
		return
	}

	now := a.now()
	out := []popupView{}
	for p := range validity.FilterByClassification(ordering.Sort(popups), now, states...) {
		out = append(out, popupView{Popup: p, State: validity.Classify(p.ValidityWindow(), now)})
	}
	writeJSON(w, http.StatusOK, out)
}

// UpdatePopup applies a partial update to a popup.
func (a *API) UpdatePopup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch models.PopupPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := a.Promotions.FindPopup(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if p == nil {
		writeError(w, r, notFound("popup"))
		return
	}

	patch.Apply(p)
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		writeError(w, r, errInvalidWindow)
		return
	}
	if err := a.Promotions.UpdatePopup(ctx, p); err != nil {
		writeError(w, r, persist.Wrap(collectionPopups, "update", id, err))
		return
	}
	a.finish(ctx, persist.Mutation(collectionPopups), id, "update")

	writeJSON(w, http.StatusOK, popupView{Popup: *p, State: validity.Classify(p.ValidityWindow(), a.now())})
}

// ListBanners returns banners in display order, filtered by ?state=.
func (a *API) ListBanners(w http.ResponseWriter, r *http.Request) {
	states, err := stateFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	banners, err := cached(r.Context(), a.Cache, cache.QueryKey(collectionBanners), a.Promotions.ListBanners)
	if err != nil {
		writeError(w, r, err)
		return
	}

	now := a.now()
	out := []bannerView{}
	for b := range validity.FilterByClassification(ordering.Sort(banners), now, states...) {
		out = append(out, bannerView{Banner: b, State: validity.Classify(b.ValidityWindow(), now)})
	}
	writeJSON(w, http.StatusOK, out)
}

// ListCoupons returns every coupon with its state. Exhausted coupons are
// reported as expired.
func (a *API) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := cached(r.Context(), a.Cache, cache.QueryKey(collectionCoupons), a.Promotions.ListCoupons)
	if err != nil {
		writeError(w, r, err)
		return
	}
	now := a.now()
	out := make([]couponView, 0, len(coupons))
	for _, c := range coupons {
		out = append(out, couponView{Coupon: c, State: c.Classify(now)})
	}
	writeJSON(w, http.StatusOK, out)
}

// UpdateCoupon applies a partial update to a coupon.
func (a *API) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch models.CouponPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := a.Promotions.FindCoupon(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if c == nil {
		writeError(w, r, notFound("coupon"))
		return
	}

	patch.Apply(c)
	if c.DiscountType == models.DiscountPercent && c.DiscountValue > 100 {
		writeError(w, r, badRequest("percent discount cannot exceed 100"))
		return
	}
	if err := a.Promotions.UpdateCoupon(ctx, c); err != nil {
		writeError(w, r, persist.Wrap(collectionCoupons, "update", id, err))
		return
	}
	a.finish(ctx, persist.Mutation(collectionCoupons), id, "update")

	writeJSON(w, http.StatusOK, couponView{Coupon: *c, State: c.Classify(a.now())})
}

// CurrentFreeShipping returns the free-shipping windows in effect now.
func (a *API) CurrentFreeShipping(w http.ResponseWriter, r *http.Request) {
	windows, err := cached(r.Context(), a.Cache, cache.QueryKey(collectionFreeShipping), a.Promotions.ListFreeShipping)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := slices.AppendSeq([]models.FreeShippingWindow{}, validity.FilterCurrent(windows, a.now()))
	writeJSON(w, http.StatusOK, out)
}
