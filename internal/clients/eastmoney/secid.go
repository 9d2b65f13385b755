package eastmoney

// Market digit conventions for the exchange-qualified identifier.
const (
	marketShanghai = "1"
	marketShenzhen = "0"
)

// ResolveSecID maps a bare symbol to an exchange-qualified identifier of the
// form "<market-digit>.<symbol>". Indexes and symbols starting with '5' or
// '6' resolve to the Shanghai convention; everything else to Shenzhen.
// Symbols are not validated; malformed input is forwarded as-is and fails at
// the data-fetch step.
func ResolveSecID(symbol string, isIndex bool) string {
	if isIndex || hasPrefixDigit(symbol, '5') || hasPrefixDigit(symbol, '6') {
		return marketShanghai + "." + symbol
	}
	return marketShenzhen + "." + symbol
}

func hasPrefixDigit(symbol string, d byte) bool {
	return len(symbol) > 0 && symbol[0] == d
}
