package crypto

// RangeProofBits is the width N of the range [0, 2^N) a RangeProof
// attests to.
const RangeProofBits = 32

// rangeProofGenerators holds the per-index vector generators used by
// the bit-commitment and inner-product stages. They are derived once,
// deterministically, by hashing distinct tags per index so that no
// party ever learns a discrete-log relation between them.
var (
	rangeG [RangeProofBits]Point
	rangeH [RangeProofBits]Point
	rangeU Point
)

func init() {
	for i := 0; i < RangeProofBits; i++ {
		rangeG[i] = derivePoint(indexedTag("veilcoin/rangeproof/G", i))
		rangeH[i] = derivePoint(indexedTag("veilcoin/rangeproof/H", i))
	}
	rangeU = derivePoint("veilcoin/rangeproof/U")
}

func indexedTag(prefix string, i int) string {
	const hexdigits = "0123456789abcdef"
	b := []byte(prefix)
	b = append(b, '/')
	// i < RangeProofBits(=32), two hex digits is ample.
	b = append(b, hexdigits[(i>>4)&0xf], hexdigits[i&0xf])
	return string(b)
}

// ipaProof is a recursive log-size inner-product argument proving
// knowledge of vectors a, b (each of length N at the start) satisfying
// <a,b> = t for a publicly known commitment point, folded down to a
// single pair of scalars over log2(N) rounds.
type ipaProof struct {
	L, R []Point
	A, B Scalar
}

// RangeProof is a single-value Bulletproof-style argument that a
// Pedersen commitment opens to a value in [0, 2^32).
type RangeProof struct {
	A, S   Point
	T1, T2 Point
	TauX   Scalar
	Mu     Scalar
	THat   Scalar
	ipa    ipaProof
}

// Prove builds a range proof for v under blinding r, along with the
// commitment the proof is bound to. It fails with ErrInvalidAmount
// when v does not fit in RangeProofBits bits.
func Prove(v uint64, r Scalar) (RangeProof, Point, error) {
	if v >= (uint64(1) << RangeProofBits) {
		return RangeProof{}, Point{}, ErrInvalidAmount
	}

	commitment := Commit(v, r)
	V := commitment.Point()

	aL := bitVector(v, RangeProofBits)
	aR := subVec(aL, onesVec(RangeProofBits))
	alpha := RandomScalar()
	A := vectorCommit(alpha, aL, aR)

	sL := randomVec(RangeProofBits)
	sR := randomVec(RangeProofBits)
	rho := RandomScalar()
	S := vectorCommit(rho, sL, sR)

	tr := NewTranscript(domainRangeProof)
	tr.AppendPoint("V", V)
	tr.AppendPoint("A", A)
	tr.AppendPoint("S", S)
	y := tr.ChallengeScalar("y")
	z := tr.ChallengeScalar("z")

	yPows := powersOf(y, RangeProofBits)
	twoPows := powersOf(ScalarFromUint64(2), RangeProofBits)
	zz := z.Mul(z)

	l0 := subVec(aL, scaleVec(onesVec(RangeProofBits), z))
	l1 := sL
	r0 := addVec(hadamard(yPows, addVec(aR, scaleVec(onesVec(RangeProofBits), z))), scaleVec(twoPows, zz))
	r1 := hadamard(yPows, sR)

	t1 := innerProduct(l0, r1).Add(innerProduct(l1, r0))
	t2 := innerProduct(l1, r1)

	tau1 := RandomScalar()
	tau2 := RandomScalar()
	T1 := ScalarBaseMult(t1).Add(ScalarMult(tau1, H))
	T2 := ScalarBaseMult(t2).Add(ScalarMult(tau2, H))

	tr.AppendPoint("T1", T1)
	tr.AppendPoint("T2", T2)
	x := tr.ChallengeScalar("x")

	l := addVec(l0, scaleVec(l1, x))
	rVec := addVec(r0, scaleVec(r1, x))
	tHat := innerProduct(l, rVec)

	tauX := tau2.Mul(x.Mul(x)).Add(tau1.Mul(x)).Add(zz.Mul(r))
	mu := alpha.Add(rho.Mul(x))

	yInvPows := powersOf(y.Inv(), RangeProofBits)
	hPrime := scalePoints(rangeH[:], yInvPows)

	proof := RangeProof{A: A, S: S, T1: T1, T2: T2, TauX: tauX, Mu: mu, THat: tHat}
	proof.ipa = proveIPA(tr, l, rVec, rangeG[:], hPrime)
	return proof, V, nil
}

// Verify checks a range proof against a commitment using a fresh
// transcript seeded with the range-proof domain tag.
func Verify(proof RangeProof, commitment Point) bool {
	tr := NewTranscript(domainRangeProof)
	tr.AppendPoint("V", commitment)
	tr.AppendPoint("A", proof.A)
	tr.AppendPoint("S", proof.S)
	y := tr.ChallengeScalar("y")
	z := tr.ChallengeScalar("z")
	tr.AppendPoint("T1", proof.T1)
	tr.AppendPoint("T2", proof.T2)
	x := tr.ChallengeScalar("x")

	if !checkPolynomialIdentity(proof, commitment, y, z, x) {
		return false
	}

	pFinal := rangeProofBasePoint(proof, y, z, x)
	yInvPows := powersOf(y.Inv(), RangeProofBits)
	hPrime := scalePoints(rangeH[:], yInvPows)
	return verifyIPA(tr, proof.ipa, rangeG[:], hPrime, pFinal)
}

// VerifyBatch checks many (proof, commitment) pairs together. The
// per-proof inner-product arguments are folded and checked
// individually (their generator sets differ per round), but the
// cheaper top-level polynomial-commitment identity is combined across
// all proofs using one random weight per proof drawn from a single
// shared transcript, so the combined check is one multi-scalar
// multiplication rather than len(proofs) separate ones. Semantically
// equivalent to calling Verify on each pair.
func VerifyBatch(proofs []RangeProof, commitments []Point) bool {
	if len(proofs) != len(commitments) {
		return false
	}
	if len(proofs) == 0 {
		return true
	}

	weightTr := NewTranscript(domainRangeProof + "-batch")
	var scalars []Scalar
	var points []Point

	for i, proof := range proofs {
		tr := NewTranscript(domainRangeProof)
		tr.AppendPoint("V", commitments[i])
		tr.AppendPoint("A", proof.A)
		tr.AppendPoint("S", proof.S)
		y := tr.ChallengeScalar("y")
		z := tr.ChallengeScalar("z")
		tr.AppendPoint("T1", proof.T1)
		tr.AppendPoint("T2", proof.T2)
		x := tr.ChallengeScalar("x")

		weightTr.AppendPoint("commitment", commitments[i])
		weightTr.AppendScalar("x", x)
		weightTr.AppendScalar("t-hat", proof.THat)
		weightTr.AppendScalar("tau-x", proof.TauX)
		w := weightTr.ChallengeScalar("weight")

		zz := z.Mul(z)
		xx := x.Mul(x)
		sumY := innerProduct(onesVec(RangeProofBits), powersOf(y, RangeProofBits))
		sum2 := innerProduct(onesVec(RangeProofBits), powersOf(ScalarFromUint64(2), RangeProofBits))
		delta := z.Sub(zz).Mul(sumY).Sub(z.Mul(zz).Mul(sum2))

		// Each proof contributes w*(t_hat*B + tauX*H - z²*V - delta*B -
		// x*T1 - x²*T2) to the running sum; the B-coefficients from
		// t_hat and -delta are folded together before appending.
		scalars = append(scalars,
			w.Mul(proof.THat).Sub(w.Mul(delta)),
			w.Mul(proof.TauX),
			w.Neg().Mul(zz),
			w.Neg().Mul(x),
			w.Neg().Mul(xx),
		)
		points = append(points, B, H, commitments[i], proof.T1, proof.T2)

		pFinal := rangeProofBasePoint(proof, y, z, x)
		if !verifyIPA(tr, proof.ipa, rangeG[:], scalePoints(rangeH[:], powersOf(y.Inv(), RangeProofBits)), pFinal) {
			return false
		}
	}

	return MultiScalarMult(scalars, points).Equal(identityPoint())
}

func identityPoint() Point {
	return ScalarMult(ZeroScalar(), B)
}

func checkPolynomialIdentity(proof RangeProof, commitment Point, y, z, x Scalar) bool {
	zz := z.Mul(z)
	xx := x.Mul(x)
	sumY := innerProduct(onesVec(RangeProofBits), powersOf(y, RangeProofBits))
	sum2 := innerProduct(onesVec(RangeProofBits), powersOf(ScalarFromUint64(2), RangeProofBits))
	delta := z.Sub(zz).Mul(sumY).Sub(z.Mul(zz).Mul(sum2))

	lhs := ScalarBaseMult(proof.THat).Add(ScalarMult(proof.TauX, H))
	rhs := ScalarMult(zz, commitment).Add(ScalarBaseMult(delta)).Add(ScalarMult(x, proof.T1)).Add(ScalarMult(xx, proof.T2))
	return lhs.Equal(rhs)
}

// rangeProofBasePoint reconstructs P = A + xS - z*ΣG + z*ΣH +
// z²<2^n,H'> - mu*H + t_hat*U, the point the folded inner-product
// argument must open to <l,G> + <r,H'> + <l,r>*U.
func rangeProofBasePoint(proof RangeProof, y, z, x Scalar) Point {
	zz := z.Mul(z)
	negZVec := scaleVec(onesVec(RangeProofBits), z.Neg())
	zVec := scaleVec(onesVec(RangeProofBits), z)
	twoPows := powersOf(ScalarFromUint64(2), RangeProofBits)
	hPrimeCoeffs := scaleVec(twoPows, zz)
	yInvPows := powersOf(y.Inv(), RangeProofBits)
	hPrime := scalePoints(rangeH[:], yInvPows)

	p := proof.A.Add(ScalarMult(x, proof.S))
	p = p.Add(vectorPointMul(negZVec, rangeG[:]))
	p = p.Add(vectorPointMul(zVec, rangeH[:]))
	p = p.Add(vectorPointMul(hPrimeCoeffs, hPrime))
	p = p.Sub(ScalarMult(proof.Mu, H))
	p = p.Add(ScalarMult(proof.THat, rangeU))
	return p
}

func proveIPA(tr *Transcript, a, b []Scalar, G, Hv []Point) ipaProof {
	var out ipaProof
	n := len(a)
	for n > 1 {
		n2 := n / 2
		aL, aR := a[:n2], a[n2:]
		bL, bR := b[:n2], b[n2:]
		GL, GR := G[:n2], G[n2:]
		HL, HR := Hv[:n2], Hv[n2:]

		cL := innerProduct(aL, bR)
		cR := innerProduct(aR, bL)
		L := vectorPointMul(aL, GR).Add(vectorPointMul(bR, HL)).Add(ScalarMult(cL, rangeU))
		R := vectorPointMul(aR, GL).Add(vectorPointMul(bL, HR)).Add(ScalarMult(cR, rangeU))
		tr.AppendPoint("ipa-L", L)
		tr.AppendPoint("ipa-R", R)
		u := tr.ChallengeScalar("ipa-u")
		uInv := u.Inv()

		a = addVec(scaleVec(aL, u), scaleVec(aR, uInv))
		b = addVec(scaleVec(bL, uInv), scaleVec(bR, u))
		G = foldPoints(GL, GR, uInv, u)
		Hv = foldPoints(HL, HR, u, uInv)

		out.L = append(out.L, L)
		out.R = append(out.R, R)
		n = n2
	}
	out.A = a[0]
	out.B = b[0]
	return out
}

func verifyIPA(tr *Transcript, proof ipaProof, G, Hv []Point, p Point) bool {
	n := len(G)
	if len(proof.L) != log2(n) || len(proof.R) != log2(n) {
		return false
	}
	for k := range proof.L {
		L, R := proof.L[k], proof.R[k]
		tr.AppendPoint("ipa-L", L)
		tr.AppendPoint("ipa-R", R)
		u := tr.ChallengeScalar("ipa-u")
		uInv := u.Inv()

		n2 := n / 2
		GL, GR := G[:n2], G[n2:]
		HL, HR := Hv[:n2], Hv[n2:]
		G = foldPoints(GL, GR, uInv, u)
		Hv = foldPoints(HL, HR, u, uInv)
		p = p.Add(ScalarMult(u.Mul(u), L)).Add(ScalarMult(uInv.Mul(uInv), R))
		n = n2
	}
	expected := ScalarMult(proof.A, G[0]).Add(ScalarMult(proof.B, Hv[0])).Add(ScalarMult(proof.A.Mul(proof.B), rangeU))
	return p.Equal(expected)
}

func log2(n int) int {
	k := 0
	for n > 1 {
		n /= 2
		k++
	}
	return k
}

// --- scalar/point vector helpers -------------------------------------------------

func onesVec(n int) []Scalar {
	v := make([]Scalar, n)
	one := ScalarFromUint64(1)
	for i := range v {
		v[i] = one
	}
	return v
}

func randomVec(n int) []Scalar {
	v := make([]Scalar, n)
	for i := range v {
		v[i] = RandomScalar()
	}
	return v
}

func bitVector(v uint64, n int) []Scalar {
	bits := make([]Scalar, n)
	for i := 0; i < n; i++ {
		bits[i] = ScalarFromUint64((v >> uint(i)) & 1)
	}
	return bits
}

func powersOf(x Scalar, n int) []Scalar {
	pows := make([]Scalar, n)
	cur := ScalarFromUint64(1)
	for i := 0; i < n; i++ {
		pows[i] = cur
		cur = cur.Mul(x)
	}
	return pows
}

func addVec(a, b []Scalar) []Scalar {
	out := make([]Scalar, len(a))
	for i := range a {
		out[i] = a[i].Add(b[i])
	}
	return out
}

func subVec(a, b []Scalar) []Scalar {
	out := make([]Scalar, len(a))
	for i := range a {
		out[i] = a[i].Sub(b[i])
	}
	return out
}

func hadamard(a, b []Scalar) []Scalar {
	out := make([]Scalar, len(a))
	for i := range a {
		out[i] = a[i].Mul(b[i])
	}
	return out
}

func scaleVec(a []Scalar, s Scalar) []Scalar {
	out := make([]Scalar, len(a))
	for i := range a {
		out[i] = a[i].Mul(s)
	}
	return out
}

func innerProduct(a, b []Scalar) Scalar {
	sum := ZeroScalar()
	for i := range a {
		sum = sum.Add(a[i].Mul(b[i]))
	}
	return sum
}

func scalePoints(p []Point, s []Scalar) []Point {
	out := make([]Point, len(p))
	for i := range p {
		out[i] = ScalarMult(s[i], p[i])
	}
	return out
}

func vectorPointMul(s []Scalar, p []Point) Point {
	return MultiScalarMult(s, p)
}

func foldPoints(lo, hi []Point, loScale, hiScale Scalar) []Point {
	out := make([]Point, len(lo))
	for i := range lo {
		out[i] = ScalarMult(loScale, lo[i]).Add(ScalarMult(hiScale, hi[i]))
	}
	return out
}

// vectorCommit returns blind*H + <aL,G> + <aR,H_vec>, the bit-vector
// commitment used for both A and S.
func vectorCommit(blind Scalar, aL, aR []Scalar) Point {
	p := ScalarMult(blind, H)
	p = p.Add(vectorPointMul(aL, rangeG[:]))
	p = p.Add(vectorPointMul(aR, rangeH[:]))
	return p
}
