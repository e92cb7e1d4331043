package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/topi314/collective-tools/internal/omit"
	"github.com/topi314/collective-tools/server/collective"
	"github.com/topi314/collective-tools/server/database"
	"github.com/topi314/collective-tools/server/order"
)

const selectionSessionCookie = "selection_session"

type OrderResponse struct {
	Selection   order.Selection `json:"selection"`
	CheckoutURL string          `json:"checkoutUrl"`
}

func (h *handler) OrderTier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := strconv.ParseInt(r.PathValue("event_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid 'event_id' parameter", http.StatusBadRequest)
		return
	}

	tierIDStr := r.FormValue("tier")
	if tierIDStr == "" {
		http.Error(w, "Missing 'tier' parameter", http.StatusBadRequest)
		return
	}
	tierID, err := strconv.ParseInt(tierIDStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid 'tier' parameter", http.StatusBadRequest)
		return
	}

	event, err := h.FetchEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, database.ErrEventNotFound) || errors.Is(err, collective.ErrEventNotFound) {
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(ctx, "Failed to fetch event", slog.Int64("event_id", eventID), slog.Any("err", err))
		http.Error(w, "Failed to fetch event", http.StatusInternalServerError)
		return
	}

	tier, ok := collective.FindTier(tierID, *event)
	if !ok {
		http.Error(w, "Tier not found", http.StatusNotFound)
		return
	}

	// a malformed quantity falls back to the default of one, it is not an error
	quantity := omit.NewZero[int]()
	if quantityStr := r.FormValue("quantity"); quantityStr != "" {
		if parsed, err := strconv.Atoi(quantityStr); err == nil {
			quantity = omit.New(parsed)
		}
	}

	builder := order.NewBuilder(h.SelectionStore(h.sessionID(w, r)))
	selection := builder.Build(tier, quantity)

	slog.InfoContext(ctx, "Built tier order",
		slog.Int64("event_id", eventID),
		slog.Int64("tier_id", tier.ID),
		slog.Int64("total_amount", selection.TotalAmount),
	)

	respondJSON(w, r, http.StatusOK, OrderResponse{
		Selection:   selection,
		CheckoutURL: checkoutURL(*event, selection),
	})
}

func (h *handler) TierSelection(w http.ResponseWriter, r *http.Request) {
	tierID, err := strconv.ParseInt(r.PathValue("tier_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid 'tier_id' parameter", http.StatusBadRequest)
		return
	}

	store := h.SelectionStore(h.sessionID(w, r))
	input, ok := store.Last(tierID)
	if !ok {
		// no prior input is an empty selection, not an error
		respondJSON(w, r, http.StatusOK, struct{}{})
		return
	}

	respondJSON(w, r, http.StatusOK, input)
}

func (h *handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(selectionSessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := h.NewSelectionSession()
	http.SetCookie(w, &http.Cookie{
		Name:     selectionSessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// checkoutURL is the contribution flow URL for the selection. Empty values
// are trimmed from the query.
func checkoutURL(event collective.Event, selection order.Selection) string {
	params := url.Values{}
	params.Set("tierId", strconv.FormatInt(selection.Tier.ID, 10))
	if selection.Quantity.OK {
		params.Set("quantity", strconv.Itoa(selection.Quantity.Value))
	}
	params.Set("totalAmount", strconv.FormatInt(selection.TotalAmount, 10))
	if selection.Interval != "" {
		params.Set("interval", selection.Interval)
	}
	return event.Path() + "/order?" + params.Encode()
}
