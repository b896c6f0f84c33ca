package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
type ClientMsg struct {
	Type   string `json:"type"`   // subscribe | unsubscribe | ping
	UserID string `json:"userId"` // requerido em subscribe/unsubscribe
}

// PayoutUpdate representa um resultado de reconciliação enviado ao cliente
type PayoutUpdate struct {
	UserID  string      `json:"userId"`
	Payload interface{} `json:"payload"`
}
