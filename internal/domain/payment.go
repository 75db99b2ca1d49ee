package domain

// Domain payment states mirrored from the Mercado Pago status vocabulary.
const (
	EstadoPendiente   = "pendiente"
	EstadoAprobado    = "aprobado"
	EstadoEnProceso   = "en proceso"
	EstadoRechazado   = "rechazado"
	EstadoCancelado   = "cancelado"
	EstadoReembolsado = "reembolsado"
	EstadoReversado   = "reversado"
	EstadoError       = "error"
)

var paymentStatusMap = map[string]string{
	"approved":     EstadoAprobado,
	"pending":      EstadoPendiente,
	"in_process":   EstadoEnProceso,
	"rejected":     EstadoRechazado,
	"cancelled":    EstadoCancelado,
	"refunded":     EstadoReembolsado,
	"charged_back": EstadoReversado,
}

// MapPaymentStatus translates a gateway payment status into the domain
// vocabulary. Unknown statuses pass through unchanged; an empty status
// defaults to "pendiente".
func MapPaymentStatus(status string) string {
	if status == "" {
		return EstadoPendiente
	}
	if mapped, ok := paymentStatusMap[status]; ok {
		return mapped
	}
	return status
}
