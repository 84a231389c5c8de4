package http

import (
	"testing"

	"cancerrisk/ml"
	"go.uber.org/zap"
)

func TestServerAddr(t *testing.T) {
	predictor, err := ml.NewPredictor(newTestArtifacts(t, &fakeModel{}))
	if err != nil {
		t.Fatal(err)
	}
	templates, err := NewTemplates("", zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	handlers := NewHandlers(predictor, defaultFeatures(), templates, nil, nil)

	tests := []struct {
		host string
		port int
		want string
	}{
		{"127.0.0.1", 5000, "127.0.0.1:5000"},
		{"::1", 8080, "[::1]:8080"},
	}
	for _, tt := range tests {
		config := DefaultServerConfig()
		config.Host, config.Port = tt.host, tt.port
		if got := NewServer(config, handlers, nil).Addr(); got != tt.want {
			t.Errorf("Addr() = %q, want %q", got, tt.want)
		}
	}
}
