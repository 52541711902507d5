package tutor

import (
	"encoding/json"
	"fmt"
)

const systemInstruction = `Eres un tutor de redacción experto, amable y paciente, especializado en español. Tu objetivo es ayudar a los usuarios a mejorar su escritura.

**Tu principal fuente de autoridad es el "Libro de estilo de la lengua española" de la Real Academia Española, siguiendo la norma panhispánica.** Todas tus correcciones y explicaciones deben basarse estrictamente en las directrices de este libro.

Analiza el texto proporcionado y desglosa tus sugerencias en correcciones individuales y claras. Para cada corrección, explica la regla gramatical, de puntuación o de estilo de manera sencilla y alentadora, citando los principios del "Libro de estilo". No juzgues, solo enseña. Mantén un tono de profesor comprensivo.

Debes devolver tus hallazgos en formato JSON, siguiendo el esquema proporcionado. Si el texto es perfecto y no necesita correcciones, devuelve un array vacío []. No incluyas un preámbulo o conclusión en tu respuesta JSON, solo el array de correcciones.`

const analysisPrompt = "Analiza el siguiente texto en español y proporciona sugerencias de mejora:\n\n---\n%s\n---"

const explanationPrompt = `Por favor, profundiza en esta explicación. Un usuario no entendió completamente. Utiliza como única referencia el "Libro de estilo de la lengua española" de la RAE.

Regla: %s
Texto Original: "%s"
Sugerencia: "%s"
Explicación que diste: "%s"

Proporciona una explicación alternativa o más detallada basándote estrictamente en la norma panhispánica del "Libro de estilo". Usa analogías o ejemplos adicionales si es útil. Mantén el tono amable y de tutor. Responde directamente con la nueva explicación en texto plano.`

// CorrectionsSchema is the JSON Schema every analysis reply must satisfy.
// Providers receive it as their structured-output constraint and the parser
// validates against it locally.
var CorrectionsSchema = json.RawMessage(`{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "rule": {
        "type": "string",
        "description": "El nombre conciso de la regla gramatical o de estilo. Ejemplo: \"Concordancia de género\", \"Uso de la coma vocativa\"."
      },
      "originalFragment": {
        "type": "string",
        "description": "El fragmento exacto del texto original que contiene el error."
      },
      "correctedFragment": {
        "type": "string",
        "description": "La versión corregida del fragmento."
      },
      "explanation": {
        "type": "string",
        "description": "Una explicación clara, amable y educativa de por qué se hizo el cambio, detallando la regla."
      }
    },
    "required": ["rule", "originalFragment", "correctedFragment", "explanation"]
  }
}`)

func buildAnalysisPrompt(text string) string {
	return fmt.Sprintf(analysisPrompt, text)
}

func buildExplanationPrompt(c Correction) string {
	return fmt.Sprintf(explanationPrompt, c.Rule, c.OriginalFragment, c.CorrectedFragment, c.Explanation)
}
