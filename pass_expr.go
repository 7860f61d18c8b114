package safeui

const (
	maxRefPathLength     = 500
	maxRefSegmentDepth   = 5
	maxRefBracketIndex   = 9999
	maxExprLength        = 500
	maxExprTokens        = 50
	maxExprStringLiteral = 1000
	maxExprParenDepth    = 10
	maxExprIfCount       = 3
	maxExprRefChainDepth = 5
	maxExprBracketIndex  = 9999
	maxExprFracDigits    = 10
)

// runExprPass implements §4.8: scans every Ref and Expr anywhere in the
// tree (fields, style, condition) for the listed structural limits.
func runExprPass(card *Card) *errorList {
	errs := &errorList{}
	walkCard(card, func(n *Node, ctx walkContext) bool {
		checkValueExpr(n.Condition, fieldPath(ctx.path, "condition"), errs)
		for _, f := range n.fields() {
			checkValueExpr(f.value, fieldPath(ctx.path, f.name), errs)
		}
		if n.Style != nil {
			for _, name := range n.Style.Names() {
				checkValueExpr(n.Style.Get(name), ctx.path+".style."+name, errs)
			}
		}
		if n.Children != nil && n.Children.IsForLoop() {
			checkRefPath(n.Children.Loop.In, ctx.path+".children.in", errs)
		}
		return true
	})
	return errs
}

func checkValueExpr(v *Value, path string, errs *errorList) {
	if v == nil {
		return
	}
	switch v.Kind {
	case ValueRef:
		checkRefPath(v.Ref, path, errs)
	case ValueExpr:
		checkExprString(v.Expr, path, errs)
	}
}

// checkRefPath implements §4.8's Ref path rule.
func checkRefPath(ref string, path string, errs *errorList) {
	if len(ref) > maxRefPathLength {
		errs.add(ErrRefTooLong, path, "ref path is %d bytes, limit is %d", len(ref), maxRefPathLength)
	}
	segments := parseRefPath(ref)
	depth := 0
	for _, seg := range segments {
		if seg.isIndex {
			if seg.index > maxRefBracketIndex {
				errs.add(ErrExprArrayIndexExceeded, path, "ref index [%d] exceeds %d", seg.index, maxRefBracketIndex)
			}
			continue
		}
		depth++
		if pollutionSegments[seg.name] {
			errs.add(ErrPrototypePollution, path, "ref path segment %q is forbidden", seg.name)
		}
	}
	if depth > maxRefSegmentDepth {
		errs.add(ErrExprRefDepthExceeded, path, "ref path has %d segments, limit is %d", depth, maxRefSegmentDepth)
	}
}

// checkExprString implements §4.8's Expr string rule: length, token
// count, string-literal length, parenthesis depth, if-count, ref-chain
// depth, bracket indices, fractional digits, and the forbidden-token
// set. A unary minus gets no special handling.
func checkExprString(expr string, path string, errs *errorList) {
	if len(expr) > maxExprLength {
		errs.add(ErrExprTooLong, path, "expression is %d bytes, limit is %d", len(expr), maxExprLength)
	}

	toks := tokenizeExpr(expr)
	if len(toks) > maxExprTokens {
		errs.add(ErrExprTooManyTokens, path, "expression has %d tokens, limit is %d", len(toks), maxExprTokens)
	}

	parenDepth, maxParenDepth := 0, 0
	ifCount := 0
	refChainDepth, maxRefChainDepth := 0, 0
	var prev *token

	for i := range toks {
		t := &toks[i]
		afterDot := prev != nil && prev.kind == tokDot
		followedByCall := t.kind == tokIdent && i+1 < len(toks) && toks[i+1].kind == tokLParen

		switch t.kind {
		case tokLParen:
			parenDepth++
			if parenDepth > maxParenDepth {
				maxParenDepth = parenDepth
			}
		case tokRParen:
			if parenDepth > 0 {
				parenDepth--
			}
		case tokString:
			if len(t.text) > maxExprStringLiteral {
				errs.add(ErrExprStringLiteralTooLong, path, "string literal is %d bytes, limit is %d", len(t.text), maxExprStringLiteral)
			}
		case tokNumber:
			if t.numFracDigits > maxExprFracDigits {
				errs.add(ErrInvalidValue, path, "numeric literal has %d fractional digits, limit is %d", t.numFracDigits, maxExprFracDigits)
			}
		case tokLBracket:
			// The index itself is the following tokNumber; checked below
			// via lookahead when we see it directly after '['.
			if i+1 < len(toks) && toks[i+1].kind == tokNumber {
				if idx := parseIntToken(toks[i+1].text); idx > maxExprBracketIndex {
					errs.add(ErrExprArrayIndexExceeded, path, "expression index [%s] exceeds %d", toks[i+1].text, maxExprBracketIndex)
				}
			}
		case tokRefVar:
			refChainDepth = 1
		case tokDot:
			if prev != nil && (prev.kind == tokRefVar || prev.kind == tokIdent) {
				refChainDepth++
				if refChainDepth > maxRefChainDepth {
					maxRefChainDepth = refChainDepth
				}
			}
		case tokIdent:
			switch {
			case followedByCall:
				errs.add(ErrExprFunctionCall, path, "identifier %q immediately followed by \"(\" is not allowed", t.text)
			case afterDot:
				// A bare word directly after "." is a ref-chain segment
				// (e.g. "$user.name"), not a free-standing identifier;
				// §4.8 only forbids identifiers that aren't part of a
				// $ref chain.
			default:
				checkIdentToken(t.text, path, errs, &ifCount)
			}
		case tokOperator:
			if forbiddenOperators[t.text] {
				errs.add(ErrExprForbiddenToken, path, "operator %q is forbidden", t.text)
			}
		case tokInvalid:
			errs.add(ErrExprInvalidToken, path, "invalid token %q", t.text)
		}

		isChainSegment := t.kind == tokDot || t.kind == tokRefVar || (t.kind == tokIdent && afterDot)
		if !isChainSegment {
			// Any token that isn't part of a "$ref.segment.segment" run
			// breaks the chain. (A refvar itself resets the counter to 1,
			// handled above; an ident directly after a dot continues the
			// run without changing the depth already recorded at the dot.)
			refChainDepth = 0
		}
		prev = t
	}

	if maxParenDepth > maxExprParenDepth {
		errs.add(ErrExprNestingTooDeep, path, "parenthesis depth is %d, limit is %d", maxParenDepth, maxExprParenDepth)
	}
	if ifCount > maxExprIfCount {
		errs.add(ErrExprConditionNestingTooDeep, path, "expression has %d \"if\" keywords, limit is %d", ifCount, maxExprIfCount)
	}
	if maxRefChainDepth > maxExprRefChainDepth {
		errs.add(ErrExprRefDepthExceeded, path, "variable reference chain depth is %d, limit is %d", maxRefChainDepth, maxExprRefChainDepth)
	}

}

func checkIdentToken(text string, path string, errs *errorList, ifCount *int) {
	if text == "if" {
		*ifCount++
	}
	if forbiddenKeywords[text] {
		errs.add(ErrExprForbiddenToken, path, "keyword %q is forbidden", text)
		return
	}
	if keywordTokens[text] {
		return
	}
	// Any other bare identifier is either a function-call target or an
	// unprefixed name; both are forbidden (§4.8).
	errs.add(ErrExprForbiddenToken, path, "bare identifier %q is not allowed (did you mean $%s?)", text, text)
}

// The unary-minus rule (§4.8: a "-" preceding digits is a numeric sign,
// not a subtraction operator, iff the previous token is absent, an
// operator, a condition keyword, or an opening "("/"[") only matters to
// something that evaluates the expression. This pass never evaluates —
// it only validates structure — and "-" is not itself a forbidden
// operator in either reading, so there is nothing for a structural
// check to reject either way; isConditionKeyword exists for a future
// evaluator to reuse this same disambiguation.

func parseIntToken(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}
