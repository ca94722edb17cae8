package compass

// RotateSteps moves a control by n discrete steps, as keyboard shortcuts do.
// Positive n advances the value shown at the reference mark: the next note
// for pitch and chromatic, the next diatonic slot for degree. Repeated calls
// while a snap is running accumulate from where that snap was heading.
func (e *Engine) RotateSteps(c Control, n int) {
	if !c.valid() || n == 0 {
		return
	}
	rs := &e.st.rings

	switch c {
	case PitchControl:
		target := Normalize(NearestStep(rs[PitchClass].Target) - float64(n)*AngleStep)
		e.interrupt()
		rs[PitchClass].Target = target
		e.launch(PitchOnly, e.st.diatonic)

	case DegreeControl:
		slot := NearestDiatonicIndex(rs[Degree].Target, rs[Chromatic].Target) + n
		slot = ((slot % len(DiatonicOffsets)) + len(DiatonicOffsets)) % len(DiatonicOffsets)
		e.interrupt()
		e.planDegree(DiatonicTarget(slot, rs[Chromatic].Target))
		e.launch(DegreeOnly, slot)

	case ChromaticControl:
		target := Normalize(NearestStep(rs[Chromatic].Target) - float64(n)*AngleStep)
		e.interrupt()
		slot := NearestDiatonicIndex(rs[Degree].Angle, rs[Chromatic].Angle)
		e.planChromatic(target, slot)
		e.launch(ChromaticGroup, slot)
	}
}

// SelectNote makes note n (0 = C … 11 = B) the root by turning the pitch
// ring within the chromatic frame. Out-of-range notes are ignored.
func (e *Engine) SelectNote(n int) {
	if n < 0 || n >= Positions {
		return
	}
	e.interrupt()
	rs := &e.st.rings
	rs[PitchClass].Target = Normalize(rs[Chromatic].Target + StepAngle(n))
	e.launch(PitchOnly, e.st.diatonic)
}

// Reset animates every ring back to 0 (C Major).
func (e *Engine) Reset() {
	e.interrupt()
	e.drag = nil
	for _, r := range Rings {
		e.st.rings[r].Target = 0
	}
	e.launch(ChromaticGroup, 0)
}
