package events

// EventSettled é a mensagem do provedor externo de resultados com o
// desfecho final de um evento: seleção vencedora, ou void para evento
// cancelado.
type EventSettled struct {
	EventID          string `json:"event_id"`
	WinningSelection string `json:"winning_selection,omitempty"`
	Void             bool   `json:"void,omitempty"`
	TsUnixMs         int64  `json:"ts_unix_ms"`
}
