package handlers

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"route-planner/internal/api/dto"
	"route-planner/internal/domain"
	"route-planner/internal/ports"
)

// GeocodeHandler mirrors forward and reverse geocoding onto the
// upstream geocoder, optionally fronted by a cache. One query shape per
// request: q= for search, lat=&lng= for reverse.
type GeocodeHandler struct {
	Geocoder ports.Geocoder
	Cache    ports.GeocodeCache
}

func (h *GeocodeHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	latParam := strings.TrimSpace(r.URL.Query().Get("lat"))
	lngParam := strings.TrimSpace(r.URL.Query().Get("lng"))

	if query != "" && (latParam != "" || lngParam != "") {
		writeError(w, r, http.StatusBadRequest, "use either q (search) or lat+lng (reverse), not both")
		return
	}
	if query == "" && (latParam == "" || lngParam == "") {
		writeError(w, r, http.StatusBadRequest, "provide q (search) or lat and lng (reverse)")
		return
	}

	if query != "" {
		h.search(w, r, query)
		return
	}

	lat, errLat := strconv.ParseFloat(latParam, 64)
	lng, errLng := strconv.ParseFloat(lngParam, 64)
	if errLat != nil || errLng != nil || math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		writeError(w, r, http.StatusBadRequest, "lat and lng must be numbers")
		return
	}

	h.reverse(w, r, domain.Point{Lat: lat, Lng: lng})
}

func (h *GeocodeHandler) search(w http.ResponseWriter, r *http.Request, query string) {
	key := "q:" + query

	if items, ok := h.cacheGet(r.Context(), key); ok {
		writeJSON(w, r, http.StatusOK, dto.GeocodeResponse{Items: items})
		return
	}

	items, err := h.Geocoder.Search(r.Context(), query)
	if err != nil {
		h.writeUpstreamError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.GeocodeResult{}
	}

	h.cachePut(r.Context(), key, items)
	writeJSON(w, r, http.StatusOK, dto.GeocodeResponse{Items: items})
}

func (h *GeocodeHandler) reverse(w http.ResponseWriter, r *http.Request, p domain.Point) {
	key := "rev:" + p.String()

	if items, ok := h.cacheGet(r.Context(), key); ok && len(items) == 1 {
		writeJSON(w, r, http.StatusOK, items[0])
		return
	}

	item, err := h.Geocoder.Reverse(r.Context(), p)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "no address found for these coordinates")
			return
		}
		h.writeUpstreamError(w, r, err)
		return
	}

	h.cachePut(r.Context(), key, []domain.GeocodeResult{item})
	writeJSON(w, r, http.StatusOK, item)
}

func (h *GeocodeHandler) writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("geocode proxy failed: path=%s err=%v", r.URL.RequestURI(), err)

	var ue *ports.UpstreamError
	if errors.As(err, &ue) {
		writeError(w, r, http.StatusBadGateway, "upstream error")
		return
	}
	writeError(w, r, http.StatusInternalServerError, "geocode request failed")
}

// Cache faults never fail a request; they are logged and the upstream
// is consulted as if on a miss.
func (h *GeocodeHandler) cacheGet(ctx context.Context, key string) ([]domain.GeocodeResult, bool) {
	if h.Cache == nil {
		return nil, false
	}

	items, ok, err := h.Cache.Get(ctx, key)
	if err != nil {
		log.Printf("geocode cache get failed: key=%q err=%v", key, err)
		return nil, false
	}
	return items, ok
}

func (h *GeocodeHandler) cachePut(ctx context.Context, key string, items []domain.GeocodeResult) {
	if h.Cache == nil {
		return
	}

	if err := h.Cache.Put(ctx, key, items); err != nil {
		log.Printf("geocode cache put failed: key=%q err=%v", key, err)
	}
}
