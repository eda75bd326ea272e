package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sanonone/fibermap/pkg/render"
	"github.com/sanonone/fibermap/pkg/zone"
)

func (s *Server) registerHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /fibers.bin", s.handleFibersBin)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/models", s.handleModels)
	mux.HandleFunc("GET /api/models/{model}/membership", s.handleMembership)
	mux.HandleFunc("GET /api/models/{model}/colors", s.handleColors)
	mux.HandleFunc("GET /api/models/{model}/positions", s.handlePositions)
	mux.HandleFunc("GET /api/models/{model}/zones/{zone}/fibers", s.handleZoneFibers)
	mux.HandleFunc("GET /api/models/{model}/fibers/{fiber}/zones", s.handleFiberZones)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleFibersBin serves the encoded FiberSet byte-for-byte.
func (s *Server) handleFibersBin(w http.ResponseWriter, r *http.Request) {
	encoded := s.Dataset().Encoded
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(encoded)))
	w.WriteHeader(http.StatusOK)
	w.Write(encoded)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, s.Dataset().Stats)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	d := s.Dataset()
	rep := d.Report
	resp := ModelsResponse{
		RunID:  rep.RunID,
		Policy: rep.Policy,
		Fibers: rep.Fibers,
		Models: make([]ModelSummary, len(rep.Models)),
	}
	for i, m := range rep.Models {
		byZone := m.Table.ByZone(len(m.Zones))
		zones := make([]ZoneSummary, len(m.Zones))
		for z, sp := range m.Zones {
			zs := ZoneSummary{Index: z, Sphere: sp, Fibers: len(byZone[z])}
			if z < len(d.Layout.Electrodes) {
				zs.Electrode = d.Layout.Electrodes[z].Name
			}
			zones[z] = zs
		}
		resp.Models[i] = ModelSummary{
			Model:   m.Model,
			Zones:   zones,
			Entries: len(m.Table),
			Touched: m.Assignment.Count(),
		}
	}
	s.writeHTTPResponse(w, http.StatusOK, resp)
}

func (s *Server) handleMembership(w http.ResponseWriter, r *http.Request) {
	m, ok := s.modelFromPath(w, r, s.Dataset())
	if !ok {
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, MembershipResponse{
		Model:      m.Model,
		Membership: m.Table,
	})
}

func (s *Server) handleColors(w http.ResponseWriter, r *http.Request) {
	d := s.Dataset()
	m, ok := s.modelFromPath(w, r, d)
	if !ok {
		return
	}
	colors := render.Colors(m.Assignment, d.Palette, d.BaseColor)
	resp := ColorsResponse{
		Model:  m.Model,
		Policy: d.Report.Policy,
		Fibers: make([]FiberColor, len(colors)),
	}
	for f, c := range colors {
		resp.Fibers[f] = FiberColor{
			Fiber: f,
			Zone:  m.Assignment[f],
			Color: c,
			RGB:   render.RGB(c),
		}
	}
	s.writeHTTPResponse(w, http.StatusOK, resp)
}

// handlePositions serves the placed vertex stream of a model for GPU upload.
// ?format=half halves the payload; offsets follow from the vertex counts in
// /fibers.bin and are repeated in the X-Fiber-Count/X-Vertex-Count headers.
func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	d := s.Dataset()
	m, ok := s.modelFromPath(w, r, d)
	if !ok {
		return
	}
	enc, err := render.ParseEncoding(r.URL.Query().Get("format"))
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	pb := d.Positions[m.Model]
	body := pb.Bytes(enc)

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("X-Position-Format", string(enc))
	w.Header().Set("X-Fiber-Count", strconv.Itoa(pb.Fibers()))
	w.Header().Set("X-Vertex-Count", strconv.Itoa(len(pb.Positions)/3))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// handleZoneFibers lists the fibers touching one zone of a model.
func (s *Server) handleZoneFibers(w http.ResponseWriter, r *http.Request) {
	m, ok := s.modelFromPath(w, r, s.Dataset())
	if !ok {
		return
	}
	raw := r.PathValue("zone")
	z, err := strconv.Atoi(raw)
	if err != nil || z < 0 {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid zone index: "+raw)
		return
	}
	if z >= len(m.Zones) {
		s.writeHTTPError(w, http.StatusNotFound, "zone not found: "+raw)
		return
	}
	fibers := m.Table.Fibers(z)
	if fibers == nil {
		fibers = []int{}
	}
	s.writeHTTPResponse(w, http.StatusOK, ZoneFibersResponse{
		Model:  m.Model,
		Zone:   z,
		Sphere: m.Zones[z],
		Fibers: fibers,
	})
}

// handleFiberZones lists every zone a fiber touches together with the zone
// the tie-break policy picked.
func (s *Server) handleFiberZones(w http.ResponseWriter, r *http.Request) {
	m, ok := s.modelFromPath(w, r, s.Dataset())
	if !ok {
		return
	}
	raw := r.PathValue("fiber")
	f, err := strconv.Atoi(raw)
	if err != nil || f < 0 {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid fiber index: "+raw)
		return
	}
	if f >= len(m.Assignment) {
		s.writeHTTPError(w, http.StatusNotFound, "fiber not found: "+raw)
		return
	}
	zones := m.Table.Zones(f)
	if zones == nil {
		zones = []int{}
	}
	s.writeHTTPResponse(w, http.StatusOK, FiberZonesResponse{
		Model:    m.Model,
		Fiber:    f,
		Zones:    zones,
		Assigned: m.Assignment[f],
	})
}

// modelFromPath resolves the {model} path value, writing the error response
// itself when the index is malformed or unknown.
func (s *Server) modelFromPath(w http.ResponseWriter, r *http.Request, d *Dataset) (zone.ModelResult, bool) {
	raw := r.PathValue("model")
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid model index: "+raw)
		return zone.ModelResult{}, false
	}
	if idx >= len(d.Report.Models) {
		s.writeHTTPError(w, http.StatusNotFound, "model not found: "+raw)
		return zone.ModelResult{}, false
	}
	return d.Report.Models[idx], true
}

func (s *Server) writeHTTPResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeHTTPError(w http.ResponseWriter, statusCode int, message string) {
	s.writeHTTPResponse(w, statusCode, map[string]string{"error": message})
}
