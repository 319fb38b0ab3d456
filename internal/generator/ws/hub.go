package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/radieske/lotto-2d-generator/internal/generator/combo"
	"github.com/radieske/lotto-2d-generator/pkg/contracts/events"
)

// Hub atende o monitor de custo ao vivo via WebSocket
// Cada mensagem preview recebe de volta os totais das combinações enviadas;
// avisos de bilhete arquivado vão para todas as conexões
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader
	mu       sync.Mutex
	// conexão -> lock de escrita (gorilla aceita um escritor por vez)
	conns map[*websocket.Conn]*sync.Mutex

	OnPreview func() // métricas
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(log *zap.Logger, allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		conns:    make(map[*websocket.Conn]*sync.Mutex),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	wmu := h.add(conn)
	defer func() {
		h.remove(conn)
		_ = conn.Close()
	}()

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("ws read failed", zap.Error(err))
			}
			return
		}

		wmu.Lock()
		err := conn.WriteJSON(h.reply(msg))
		wmu.Unlock()
		if err != nil {
			h.log.Warn("ws write failed", zap.Error(err))
			return
		}
	}
}

func (h *Hub) reply(msg ClientMsg) ServerMsg {
	switch msg.Type {
	case "preview":
		if h.OnPreview != nil {
			h.OnPreview()
		}
		t := combo.PreviewTotals(msg.Combinations)
		return ServerMsg{
			Type:              "totals",
			TotalCombinations: t.TotalCombinations,
			TotalCost:         t.TotalCost,
			TotalCostLabel:    combo.FormatPeso(t.TotalCost),
		}
	case "ping":
		return ServerMsg{Type: "pong"}
	default:
		return ServerMsg{Type: "error", Error: "unknown message type: " + msg.Type}
	}
}

// Broadcast envia o aviso de bilhete arquivado para todos os clientes conectados
func (h *Hub) Broadcast(a events.TicketArchived) {
	b, err := json.Marshal(ServerMsg{
		Type:              "archived",
		TicketID:          a.TicketID,
		TotalCombinations: a.TotalCombinations,
		TotalCost:         a.TotalCost,
		TotalCostLabel:    combo.FormatPeso(a.TotalCost),
	})
	if err != nil {
		return
	}

	h.mu.Lock()
	targets := make(map[*websocket.Conn]*sync.Mutex, len(h.conns))
	for c, wmu := range h.conns {
		targets[c] = wmu
	}
	h.mu.Unlock()

	for c, wmu := range targets {
		wmu.Lock()
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			h.log.Debug("ws broadcast write failed", zap.Error(err))
		}
		wmu.Unlock()
	}
}

func (h *Hub) add(c *websocket.Conn) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	wmu := &sync.Mutex{}
	h.conns[c] = wmu
	return wmu
}

func (h *Hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
}

// Count retorna o número de conexões abertas
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close derruba todas as conexões abertas (shutdown do serviço); o loop de leitura de cada uma termina em seguida
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		_ = c.Close()
		delete(h.conns, c)
	}
}
