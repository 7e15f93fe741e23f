package domain

// TimelineStatus is the customer-facing rendition of a carrier internal code.
type TimelineStatus struct {
	// Code is the stable timeline code consumed by the frontend.
	Code string
	// Title is the short status title shown on the timeline.
	Title string
	// Message is the friendly description shown under the title.
	Message string
}

// timelineMappings maps TPL internal codes to the customer timeline.
// Several internal codes intentionally collapse to the same timeline code;
// codes absent from this table are dropped from customer-facing output.
// Built once at init and never mutated, so it is safe for concurrent reads.
var timelineMappings = map[int]TimelineStatus{
	// Special entry: used synthetically while no tracking code exists.
	0: {"0", "Em preparação", "Estamos preparando seu pedido com carinho"},

	1:  {"1", "Pedido recebido", "Recebemos seu pedido e já estamos processando"},
	5:  {"0", "Em preparação", "Seu pedido está sendo separado no estoque"},
	10: {"2", "Separando pedido", "Seu pedido está sendo preparado para envio"},
	20: {"2", "Separando pedido", "Seu pedido está sendo conferido"},
	25: {"3", "Nota fiscal emitida", "A nota fiscal do seu pedido foi gerada"},
	30: {"3", "Pronto para despacho", "Seu pedido está pronto para ser enviado"},
	50: {"4", "Despachado", "Seu pedido foi enviado para a transportadora"},
	60: {"4", "Coletado pela transportadora", "A transportadora já retirou seu pedido"},
	70: {"5", "Em trânsito", "Seu pedido está a caminho"},
	75: {"6", "Saiu para entrega", "Seu pedido saiu para entrega e chegará em breve"},
	90: {"7", "Entregue", "Seu pedido foi entregue com sucesso!"},

	// Delivery incidents
	80:   {"8", "Ocorrência", "Houve uma ocorrência com seu pedido. Estamos resolvendo"},
	100:  {"9", "Falha na entrega", "Não conseguimos entregar. Nova tentativa será feita"},
	110:  {"9", "Pedido recusado", "O pedido foi recusado no endereço de entrega"},
	1010: {"8", "Endereço incorreto", "O endereço de entrega precisa ser corrigido"},
	1020: {"8", "Destinatário ausente", "Destinatário ausente. Nova tentativa será feita"},
	1040: {"8", "Aguardando retirada", "Seu pedido está disponível para retirada"},

	// Terminal / administrative situations
	200:  {"10", "Pedido cancelado", "Este pedido foi cancelado"},
	300:  {"10", "Devolvido", "O pedido foi devolvido ao remetente"},
	400:  {"10", "Extraviado", "O pedido está sendo localizado"},
	510:  {"4", "Registrado na transportadora", "A transportadora registrou seu pedido"},
	1150: {"3", "Volume preparado", "O volume do seu pedido foi preparado"},
}

// MapInternalCode maps a TPL internal code to its timeline status.
// Returns nil for nil or unmapped codes; callers must drop such events
// rather than treat the nil as an error.
func MapInternalCode(internalCode *int) *TimelineStatus {
	if internalCode == nil {
		return nil
	}
	if status, ok := timelineMappings[*internalCode]; ok {
		return &status
	}
	return nil
}

// IsMapped reports whether MapInternalCode would return a status for the code.
func IsMapped(internalCode *int) bool {
	if internalCode == nil {
		return false
	}
	_, ok := timelineMappings[*internalCode]
	return ok
}

// PreparationStatus returns the "Em preparação" entry (timeline code "0"),
// used when the order has no tracking code yet.
func PreparationStatus() TimelineStatus {
	return timelineMappings[0]
}

// AllMappings returns a copy of the mapping table, useful for documentation
// and exhaustive tests.
func AllMappings() map[int]TimelineStatus {
	out := make(map[int]TimelineStatus, len(timelineMappings))
	for code, status := range timelineMappings {
		out[code] = status
	}
	return out
}
