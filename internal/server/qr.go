package server

import (
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// handleJoinQR serves a PNG QR code pointing at the room's join URL, for
// putting up on a shared screen.
func (s *Server) handleJoinQR(w http.ResponseWriter, r *http.Request, code string) {
	if _, ok := s.store.GetRoom(code); !ok {
		http.NotFound(w, r)
		return
	}
	joinURL := strings.TrimRight(s.cfg.BaseURL, "/") + "/join/" + code
	png, err := qrcode.Encode(joinURL, qrcode.Medium, qrSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
