package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"pdptw-plan-service/internal/api/dto"
	"pdptw-plan-service/internal/domain"
	"pdptw-plan-service/internal/ports"
	"pdptw-plan-service/internal/services"
)

type ProblemHandler struct {
	Repo     ports.ProblemRepository
	Provider ports.DistanceProvider
}

// Get summarizes the stored problem after ingestion: entity counts and the
// dummy-node expansion map.
func (h *ProblemHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	p, ok := loadProblem(w, r, h.Repo, h.Provider)
	if !ok {
		return
	}

	res := dto.ProblemResponse{
		BaseInstant:     p.Base().Format(time.RFC3339),
		LocationCount:   p.LocationCount(),
		VehicleCount:    len(p.Vehicles()),
		OrderCount:      len(p.Orders()),
		NodeCount:       p.NodeCount(),
		DestinationNode: p.DestinationNode(),
		Nodes:           make([]dto.NodeResponse, 0, p.NodeCount()),
	}
	for _, n := range p.Nodes() {
		kind := "delivery"
		if n.IsPickup() {
			kind = "pickup"
		}
		res.Nodes = append(res.Nodes, dto.NodeResponse{
			Index:      n.Index,
			Kind:       kind,
			OrderID:    n.OrderID,
			LocationID: n.LocationID,
			Delta:      n.Delta,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Compat exposes the frozen vehicle-order matching for debugging.
func (h *ProblemHandler) Compat(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	p, ok := loadProblem(w, r, h.Repo, h.Provider)
	if !ok {
		return
	}

	res := dto.CompatResponse{Vehicles: make([]dto.VehicleCompatResponse, 0, len(p.Vehicles()))}
	for _, v := range p.Vehicles() {
		res.Vehicles = append(res.Vehicles, dto.VehicleCompatResponse{
			VehicleID:      v.Vehicle.ID,
			Tags:           v.Vehicle.Tags,
			ServableOrders: v.ServableOrders,
			ReachableNodes: v.ReachableNodes,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// loadProblem runs ingestion for a request, translating failures to HTTP
// responses. Returns ok=false when a response has already been written.
func loadProblem(w http.ResponseWriter, r *http.Request, repo ports.ProblemRepository, provider ports.DistanceProvider) (*services.Problem, bool) {
	data, err := repo.LoadProblem(r.Context())
	if err != nil {
		log.Printf("load problem failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return nil, false
	}

	p, err := services.NewProblem(r.Context(), data, provider)
	if err != nil {
		var integrity *domain.DataIntegrityError
		if errors.As(err, &integrity) {
			writeError(w, r, http.StatusUnprocessableEntity, integrity.Error())
			return nil, false
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, r, http.StatusServiceUnavailable, "request cancelled")
			return nil, false
		}
		log.Printf("build problem failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return nil, false
	}

	return p, true
}
