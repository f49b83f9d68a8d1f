// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package richtext

// Visitor receives the structure of an [Annotated] text from [Walk].
type Visitor interface {
	// Enter is called when a range opens.
	Enter(r Range)
	// Text is called for every run of characters between range boundaries.
	Text(s string)
	// Exit is called when a range closes, innermost first.
	Exit(r Range)
}

// Walk reports the runs and ranges of t to v in document order.
//
// Ranges that overlap without nesting, which a [Builder] never produces, are
// clipped to the enclosing range. Empty ranges are reported when skipEmpty is false.
func Walk(t Text, v Visitor, skipEmpty bool) {
	a := AsAnnotated(t)

	var stack []Range

	pos := 0

	emit := func(until int) {
		if until > pos {
			v.Text(a.text[pos:until])
			pos = until
		}
	}

	closeUntil := func(offset int) {
		for len(stack) > 0 && stack[len(stack)-1].End <= offset {
			top := stack[len(stack)-1]
			emit(top.End)
			v.Exit(top)
			stack = stack[:len(stack)-1]
		}
	}

	for _, r := range a.ranges {
		if skipEmpty && r.Len() == 0 {
			continue
		}

		closeUntil(r.Start)

		if len(stack) > 0 && r.End > stack[len(stack)-1].End {
			r.End = stack[len(stack)-1].End
		}

		emit(r.Start)
		v.Enter(r)
		stack = append(stack, r)
	}

	closeUntil(len(a.text))
	emit(len(a.text))
}
