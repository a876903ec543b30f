package instancer

// Tent is one axis's triangular influence function, (lower, peak, upper)
// in normalized units (§3). A Tent whose Peak is 0 does not participate
// in support computation — it is the representation of "axis not present
// in this tuple variation" once looked up via AxisTents.Get.
type Tent struct {
	Lower, Peak, Upper float64
}

// defaultTent is the implicit tent for an axis missing from a tuple
// variation's axis map: the whole normalized range, centered at 0 (§3).
var defaultTent = Tent{-1, 0, 1}

// supportScalar computes the support-scalar formula of §4.C ("Pinning one
// tent at coordinate c along axis a") for tent t at coordinate c.
func supportScalar(t Tent, c float64) float64 {
	l, p, u := t.Lower, t.Peak, t.Upper
	switch {
	case c < l || c > u || p == 0:
		return 0
	case (p > 0 && 0 <= c && c <= p) || (p < 0 && p <= c && c <= 0):
		return c / p
	case 0 <= p && p < c && c <= u:
		return (u - c) / (u - p)
	case l <= c && c < p && p <= 0:
		return (l - c) / (l - p)
	default:
		return 0
	}
}

// negateTent mirrors a tent across 0, restoring lower <= peak <= upper
// ordering; used to move a canonicalized positive-side result back to the
// negative side (§4.C, "Negate bounds back...").
func negateTent(t Tent) Tent {
	return Tent{-t.Upper, -t.Peak, -t.Lower}
}

// tentResult is one output of rangeLimitTent: a transformed tent plus the
// scalar multiplier to apply to the owning variation's deltas.
type tentResult struct {
	Tent   Tent
	Scalar float64
}

// rangeLimitTent implements §4.C "Range-limiting one tent to [lo, hi]
// along axis a", the 5-case algorithm. Returns nil if the tent's
// influence is dropped entirely (case 2), one result for cases 1/3/4, and
// two results for the splitting case 5.
func rangeLimitTent(t Tent, lo, hi float64) []tentResult {
	l, p, u := t.Lower, t.Peak, t.Upper

	if p == 0 || (l < 0 && u > 0) {
		return []tentResult{{Tent: t, Scalar: 1}}
	}

	negative := p < 0
	limit := hi
	if negative {
		limit = lo
	}
	if limit == 0 {
		return nil
	}

	L, P, U := l/limit, p/limit, u/limit
	if negative {
		L, U = U, L
	}

	var results []tentResult
	switch {
	case L == 1 && P == 1:
		nt := Tent{1, 1, 1}
		if negative {
			nt = Tent{-1, -1, -1}
		}
		results = append(results, tentResult{nt, 1})

	case L >= 1:
		return nil

	case P >= 1:
		s := supportScalar(t, limit)
		nt := Tent{L, 1, 1}
		if negative {
			nt = negateTent(nt)
		}
		results = append(results, tentResult{nt, s})

	case U <= 2:
		newU := U
		if newU > F2Dot14Max {
			newU = F2Dot14Max
		}
		nt := Tent{L, P, newU}
		if negative {
			nt = negateTent(nt)
		}
		results = append(results, tentResult{nt, 1})

	default:
		s1 := supportScalar(t, limit)
		s2 := 1.0 / (2.0 - P)

		nt1 := Tent{L, P, F2Dot14Max}
		if negative {
			nt1 = negateTent(nt1)
		}
		results = append(results, tentResult{nt1, s1 - s2})

		nt2 := Tent{P, 1, 1}
		if negative {
			nt2 = negateTent(nt2)
		}
		results = append(results, tentResult{nt2, s2})
	}

	for i := range results {
		results[i].Tent.Lower = quantizeF2Dot14(results[i].Tent.Lower)
		results[i].Tent.Peak = quantizeF2Dot14(results[i].Tent.Peak)
		results[i].Tent.Upper = quantizeF2Dot14(results[i].Tent.Upper)
	}
	return results
}
