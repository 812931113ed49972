package payments

// Caller facing validation messages. Prefix messages are completed with the
// offending value.
const (
	MsgCreationRequestNull = "Payment creation request cannot be null"
	MsgUnsupportedType     = "Unsupported payment type: "
	MsgCurrencyUnsupported = "Unsupported currency code: "

	MsgTypeMandatory     = "Type is required"
	MsgAmountMandatory   = "Amount is required and must be more than 0"
	MsgIncorrectAmount   = "Please provide an amount with no more than 2 decimal places"
	MsgCurrencyMandatory = "Currency is required"
	MsgMoneyMissing      = "Please check your request structure, currency and amount should go as money"
	MsgDebtorIBAN        = "Debtor IBAN is required"
	MsgCreditorIBAN      = "Creditor IBAN is required"

	MsgTypeNotCompatibleWithCurrency = " payment is not allowed to be used with currency "
	MsgDetailsMandatoryForType1      = "TYPE1 payment requires details to be provided"
	MsgBICMandatoryForType3          = "TYPE3 payment requires creditor bank BIC to be provided"

	MsgPaymentWithID            = "Payment with id "
	MsgIsAlreadyCanceled        = " is already canceled"
	MsgSameDayCancellation      = "Payment can be cancelled only on the day of its creation"
	MsgNoDataForPaymentType     = "No data found for payment type: "
	MsgWasCancelledWithFee      = " was successfully cancelled. Cancellation fee is: "
	MsgPaymentDoesNotExist      = "Provided payment id does not exist"
	MsgHoursCannotBeNegative    = "Hours cannot be negative"
	MsgFailedToSendNotification = "Failed to send out notification for payment type: "
)
