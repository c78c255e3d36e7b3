package handlers

import "net/http"

// HealthHandler responde com uma mensagem simples para verificar o processo.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
