package chi

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// TimeLayout renders timestamps without zone or fractional seconds.
const TimeLayout = "2006-01-02T15:04:05"

const (
	typeError   = "error"
	typeSuccess = "success"
)

// statusResponse is the body of errors and mutation acknowledgements.
type statusResponse struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, statusResponse{Code: status, Type: typeError, Message: message})
}

func writeSuccess(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, statusResponse{Code: http.StatusOK, Type: typeSuccess, Message: message})
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// plainValue converts values of schemaless documents into JSON friendly
// ones. Timestamps use TimeLayout; containers are converted recursively.
func plainValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return formatTime(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = plainValue(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plainValue(e)
		}
		return out
	default:
		return v
	}
}

func plainDocument(doc map[string]any) map[string]any {
	out, _ := plainValue(doc).(map[string]any)
	return out
}
