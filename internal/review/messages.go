package review

import "fmt"

const (
	msgGreeting      = "¡Hola! Soy tu tutor de redacción. Pega un texto que quieras mejorar y lo analizaré por ti."
	msgNoSuggestions = "¡Tu texto está muy bien! No encontré ninguna sugerencia de mejora por ahora. ¡Sigue escribiendo así!"
	msgClosing       = "¡Hemos terminado la revisión! Espero que estas sugerencias te sean útiles. ¿Quieres analizar otro texto?"
	msgAnalysisError = "Lo siento, tuve problemas para analizar tu texto. No se pudieron obtener las correcciones. Inténtalo de nuevo más tarde."
	msgExplainError  = "Lo siento, no pude generar una explicación más detallada. No se pudo obtener una explicación más detallada. Inténtalo de nuevo."
)

// Busy indicator texts shown while a request is in flight.
const (
	AnalyzingNotice  = "¡Entendido! Estoy analizando tu texto. Dame un momento..."
	ExplainingNotice = "Claro, déjame darte una explicación más detallada..."
)

func foundMessage(n int) string {
	return fmt.Sprintf("He encontrado %d sugerencia(s) para mejorar tu texto. Vamos a revisarlas una por una.", n)
}
