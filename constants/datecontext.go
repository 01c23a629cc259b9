package constants

// DateContext tags what a date printed on a receipt refers to. A receipt
// usually carries several dates (purchase, expiry, print timestamp); the
// context drives which one wins as the transaction date.
type DateContext string

const (
	DatePurchase    DateContext = "PURCHASE"
	DateExpiry      DateContext = "EXPIRY"
	DateReturn      DateContext = "RETURN"
	DateValidity    DateContext = "VALIDITY"
	DatePrinted     DateContext = "PRINTED"
	DateTransaction DateContext = "TRANSACTION"
	DateUnknown     DateContext = "UNKNOWN"
)
