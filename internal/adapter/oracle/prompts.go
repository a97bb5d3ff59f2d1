package oracle

import (
	"fmt"
	"strings"
	"time"

	"github.com/realgoal/realgoal-backend/internal/domain"
)

// buildQuickAddPrompt constructs the extraction prompt. The model must
// output strict JSON matching the candidate schema; day-only mentions come
// back as bare day numbers so the ingestion adapter owns the rollover rule.
func buildQuickAddPrompt(text string, today time.Time) string {
	var b strings.Builder

	b.WriteString("Você é um assistente de finanças especialista em extrair informações de transações de um texto.\n")
	b.WriteString("Analise o texto fornecido e converta cada item em um objeto de transação estruturado.\n\n")

	b.WriteString("Instruções:\n")
	b.WriteString("1. Identifique cada transação individual no texto.\n")
	b.WriteString("2. \"description\": o que foi a transação.\n")
	b.WriteString("3. \"amount\": o montante numérico. Se não for especificado, use 0.\n")
	b.WriteString("4. \"category\": infira uma categoria apropriada (ex: 'Alimentação', 'Transporte', 'Lazer', 'Salário', 'Moradia'). Se não conseguir, use 'Outros'.\n")
	b.WriteString("5. \"type\": 'expense' para saídas, 'income' para entradas. A maioria será despesa, a menos que palavras como 'salário', 'bônus', 'recebi', 'venda' indiquem o contrário.\n")
	b.WriteString("6. \"date\": se o texto mencionar uma data completa, use o formato YYYY-MM-DD. ")
	b.WriteString("Se mencionar apenas um dia do mês (ex: \"vence dia 10\", \"pagar no dia 5\"), retorne SOMENTE o número do dia como string (ex: \"10\"). ")
	b.WriteString("Se nenhuma data for mencionada, omita o campo.\n")
	b.WriteString(fmt.Sprintf("7. Hoje é %s.\n\n", today.Format("2006-01-02")))

	b.WriteString("Formato de saída:\n")
	b.WriteString("- Retorne SOMENTE JSON válido, sem comentários e sem texto extra.\n")
	b.WriteString("- NÃO use cercas de código Markdown (```json).\n")
	b.WriteString("- O JSON deve ser um objeto com a chave \"transactions\" contendo um array de objetos.\n")
	b.WriteString("- Se nenhuma transação for encontrada, retorne {\"transactions\": []}.\n\n")

	b.WriteString("Texto do usuário:\n")
	b.WriteString(text)
	b.WriteString("\n")

	return b.String()
}

// buildAnalystPrompt constructs the goal-analysis prompt.
func buildAnalystPrompt(goals []domain.Goal) string {
	var b strings.Builder

	b.WriteString("Você é um assistente financeiro amigável e motivador chamado \"Analista de Metas AI\".\n")
	b.WriteString("Analise as metas financeiras do usuário e forneça feedback construtivo, dicas e sugestões personalizadas em formato Markdown.\n\n")

	b.WriteString("Instruções:\n")
	b.WriteString("1. Comece com uma saudação calorosa e encorajadora.\n")
	b.WriteString("2. Considere o progresso, os prazos e os valores de cada meta.\n")
	b.WriteString("3. Ofereça de 2 a 4 dicas práticas e acionáveis.\n")
	b.WriteString("4. Se houver metas atrasadas, aborde-as de forma sensível.\n")
	b.WriteString("5. Termine com uma nota positiva e motivacional.\n\n")

	b.WriteString("Metas do usuário:\n")
	for _, g := range goals {
		b.WriteString(fmt.Sprintf("- Meta: %s\n", g.Name))
		b.WriteString(fmt.Sprintf("  - Valor alvo: R$ %s\n", g.TotalAmount.StringFixed(2)))
		b.WriteString(fmt.Sprintf("  - Valor atual: R$ %s\n", g.CurrentAmount.StringFixed(2)))
		b.WriteString(fmt.Sprintf("  - Prazo: %s\n", g.Deadline.Format("2006-01-02")))
	}

	return b.String()
}
