package topics

const (
	// Resultados de eventos (produzidos pelo provedor externo de resultados)
	EventSettled = "event_settled"

	// Apostas
	BetPlaced  = "bet_placed"
	BetSettled = "bet_settled"

	// DLQs
	EventSettledDLQ = "event_settled_dlq"
)
