package pipeline

import (
	"fmt"
	"strings"
)

const transactionSchemaPrompt = "Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
	"Output a JSON array of objects. Each object must have these fields:\n" +
	"- \"merchant\": string, the business or person the purchase was made from\n" +
	"- \"amount\": number, the total amount of the transaction\n" +
	"- \"date\": string, ISO format \"YYYY-MM-DD\"\n\n" +
	"Return ONLY valid raw JSON.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Do NOT use ```json or any Markdown.\n" +
	"Output must begin with \"[\" and end with \"]\".\n"

// imageExtractionPrompt instructs the vision model to read a receipt photo.
const imageExtractionPrompt = "You are an expert receipt scanner. " +
	"Extract all transactions from the attached receipt image, including their merchant, " +
	"total amount, and date. Dates on receipts are DD/MM/YY: for example 13/07/25 means " +
	"13th of July 2025; normalize every date to YYYY-MM-DD.\n\n" +
	transactionSchemaPrompt

// textExtractionPrompt wraps an arbitrary textual or tabular dump (e.g. a
// spreadsheet rendered as text) for structured extraction.
func textExtractionPrompt(data string) string {
	return "You are an expert financial data parser. The text below is a dump of spending " +
		"transactions, possibly tabular (spreadsheet or CSV rendered as text).\n" +
		"Extract every transaction: merchant, total amount, and date.\n" +
		"Dates may appear in many formats (DD/MM/YYYY, MM-DD-YY, \"Jan 2 2024\", ...); " +
		"normalize each one to YYYY-MM-DD.\n" +
		"Amounts may carry currency symbols or be bare numbers; output the numeric value only.\n\n" +
		transactionSchemaPrompt +
		"\nInput data:\n" + data
}

// validatorPrompt asks for a strict re-parse of a raw browsing transcript.
// The browsing agent's job (navigate and read the DOM) and the schema
// validation job are deliberately separate calls: a malformed automation
// transcript can still be salvaged here.
func validatorPrompt(transcript string) string {
	return "You are a strict JSON validator. The input below was scraped from a credit-card " +
		"issuer's transactions page by a browser automation and may contain escape artifacts, " +
		"HTML entities, or malformed fragments.\n" +
		"Re-parse it into a clean list of transactions, repairing what you can and dropping " +
		"fragments that do not describe a transaction. Strip any remaining escape or entity " +
		"artifacts from merchant names.\n\n" +
		transactionSchemaPrompt +
		"\nScraped input:\n" + transcript
}

// classifyPrompt builds the category-assignment task for one merchant,
// constrained to the live vocabulary.
func classifyPrompt(merchant string, categories []string) string {
	return fmt.Sprintf("You are an expert financial assistant. Your goal is to categorize the "+
		"transaction with merchant '%s' into one of the following categories: %s. "+
		"Use the search tool to find out more about the merchant if you are unsure. "+
		"Your final answer should be ONLY the category name.",
		merchant, strings.Join(categories, ", "))
}
