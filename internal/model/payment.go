package model

// Payment methods accepted at the point of sale. The strings are stored
// verbatim in sales and closing detail rows, so they must never be renamed.
const (
	PaymentPix         = "pix"
	PaymentCreditCard  = "credit-card"
	PaymentDebitCard   = "debit-card"
	PaymentCash        = "cash"
	PaymentMealVoucher = "meal-voucher"
)

// PaymentMethods lists every accepted method, in display order.
var PaymentMethods = []string{
	PaymentPix,
	PaymentCreditCard,
	PaymentDebitCard,
	PaymentCash,
	PaymentMealVoucher,
}

// Sales channels. The first three double as register names; digital-menu
// sales are never attached to a register and never reconcile.
const (
	ChannelTill1       = "till-1"
	ChannelTill2       = "till-2"
	ChannelDelivery    = "delivery"
	ChannelDigitalMenu = "digital-menu"
)

// RegisterNames are the channels that map to a physical or logical drawer.
var RegisterNames = []string{ChannelTill1, ChannelTill2, ChannelDelivery}

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	for _, p := range PaymentMethods {
		if p == m {
			return true
		}
	}
	return false
}

// ValidRegisterName reports whether name identifies a known drawer.
func ValidRegisterName(name string) bool {
	for _, n := range RegisterNames {
		if n == name {
			return true
		}
	}
	return false
}
