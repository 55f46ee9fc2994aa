package respond

import (
	"encoding/json"
	"net/http"
)

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

// Error оборачивает описание ошибки в конверт {"error": ...}
func Error(w http.ResponseWriter, r *http.Request, code int, descriptor interface{}) {
	JSON(w, r, code, map[string]interface{}{"error": descriptor})
}

// Success - ответ на операции удаления
func Success(w http.ResponseWriter, r *http.Request) {
	JSON(w, r, http.StatusOK, map[string]bool{"success": true})
}
