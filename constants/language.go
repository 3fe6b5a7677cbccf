package constants

// InvoiceLanguage tags which keyword set matched a document.
type InvoiceLanguage string

const (
	LanguageEnglish InvoiceLanguage = "EN"
	LanguageSpanish InvoiceLanguage = "ES"
	LanguageUnknown InvoiceLanguage = ""
)

// Classification markers. Both markers of a pair must occur in the
// whitespace-stripped lowercased page text for a file to count as an invoice.
var (
	EnglishMarkers = [2]string{"commercialinvoice", "paymentconditions"}
	SpanishMarkers = [2]string{"facturacomercial", "condicionesdepago"}
)
