package crypto

// StealthAddress is a long-lived recipient identity: a view keypair
// used to recognize incoming payments and a spend keypair used to
// authorize spending them. Only the public half, (A, Bs), is ever
// published.
type StealthAddress struct {
	ViewSecret  Scalar
	SpendSecret Scalar
	View        Point // A  = a*B
	Spend       Point // Bs = b*B
}

// GenerateStealthAddress samples an independent view and spend
// keypair.
func GenerateStealthAddress() StealthAddress {
	a := RandomScalar()
	b := RandomScalar()
	return StealthAddress{
		ViewSecret:  a,
		SpendSecret: b,
		View:        ScalarBaseMult(a),
		Spend:       ScalarBaseMult(b),
	}
}

// Public returns the address's public half, safe to hand to a sender.
func (sa StealthAddress) Public() PublicAddress {
	return PublicAddress{View: sa.View, Spend: sa.Spend}
}

// PublicAddress is the publishable half of a StealthAddress.
type PublicAddress struct {
	View  Point // A
	Spend Point // Bs
}

// DeriveOneTimeKey is the sender-side operation: given the recipient's
// public address and a freshly sampled r, it returns the transaction
// public key R = r*B and the one-time output key P = Bs + Hs(r*A)*B.
func DeriveOneTimeKey(addr PublicAddress, r Scalar) (R, P Point) {
	R = ScalarBaseMult(r)
	shared := ScalarMult(r, addr.View)
	P = addr.Spend.Add(ScalarBaseMult(Hs(shared.Bytes())))
	return R, P
}

// Scan is the recipient-side recognition test: it recomputes P' = Bs +
// Hs(a*R)*B and reports whether it equals the published one-time key
// P, using full constant-time comparison of the decompressed points.
func Scan(addr StealthAddress, R, P Point) bool {
	shared := ScalarMult(addr.ViewSecret, R)
	expected := addr.Spend.Add(ScalarBaseMult(Hs(shared.Bytes())))
	return expected.Equal(P)
}

// DeriveSpendKey computes the private scalar x = b + Hs(a*R)
// corresponding to a one-time key recognized by Scan. The caller must
// hold the spend secret b.
func DeriveSpendKey(addr StealthAddress, R Point) Scalar {
	shared := ScalarMult(addr.ViewSecret, R)
	return addr.SpendSecret.Add(Hs(shared.Bytes()))
}
