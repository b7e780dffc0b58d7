package xrow

// Tuples are the intermediate values composites produce for ad hoc row
// shapes. T2..T8 build them from any static rows, so tuples nest.

type Tuple2[A, B any] struct {
	V0 A
	V1 B
}

type Tuple3[A, B, C any] struct {
	V0 A
	V1 B
	V2 C
}

type Tuple4[A, B, C, D any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
}

type Tuple5[A, B, C, D, E any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
}

type Tuple6[A, B, C, D, E, F any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
	V5 F
}

type Tuple7[A, B, C, D, E, F, G any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
	V5 F
	V6 G
}

type Tuple8[A, B, C, D, E, F, G, H any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
	V5 F
	V6 G
	V7 H
}

func T2[A, B any](a StaticRow[A], b StaticRow[B]) *Composite[Tuple2[A, B]] {
	out := NewComposite[Tuple2[A, B]]()
	Slot(out, a, func(t *Tuple2[A, B]) *A { return &t.V0 })
	Slot(out, b, func(t *Tuple2[A, B]) *B { return &t.V1 })
	return out
}

func T3[A, B, C any](a StaticRow[A], b StaticRow[B], c StaticRow[C]) *Composite[Tuple3[A, B, C]] {
	out := NewComposite[Tuple3[A, B, C]]()
	Slot(out, a, func(t *Tuple3[A, B, C]) *A { return &t.V0 })
	Slot(out, b, func(t *Tuple3[A, B, C]) *B { return &t.V1 })
	Slot(out, c, func(t *Tuple3[A, B, C]) *C { return &t.V2 })
	return out
}

func T4[A, B, C, D any](a StaticRow[A], b StaticRow[B], c StaticRow[C], d StaticRow[D]) *Composite[Tuple4[A, B, C, D]] {
	out := NewComposite[Tuple4[A, B, C, D]]()
	Slot(out, a, func(t *Tuple4[A, B, C, D]) *A { return &t.V0 })
	Slot(out, b, func(t *Tuple4[A, B, C, D]) *B { return &t.V1 })
	Slot(out, c, func(t *Tuple4[A, B, C, D]) *C { return &t.V2 })
	Slot(out, d, func(t *Tuple4[A, B, C, D]) *D { return &t.V3 })
	return out
}

func T5[A, B, C, D, E any](a StaticRow[A], b StaticRow[B], c StaticRow[C], d StaticRow[D], e StaticRow[E]) *Composite[Tuple5[A, B, C, D, E]] {
	out := NewComposite[Tuple5[A, B, C, D, E]]()
	Slot(out, a, func(t *Tuple5[A, B, C, D, E]) *A { return &t.V0 })
	Slot(out, b, func(t *Tuple5[A, B, C, D, E]) *B { return &t.V1 })
	Slot(out, c, func(t *Tuple5[A, B, C, D, E]) *C { return &t.V2 })
	Slot(out, d, func(t *Tuple5[A, B, C, D, E]) *D { return &t.V3 })
	Slot(out, e, func(t *Tuple5[A, B, C, D, E]) *E { return &t.V4 })
	return out
}

func T6[A, B, C, D, E, F any](a StaticRow[A], b StaticRow[B], c StaticRow[C], d StaticRow[D], e StaticRow[E], f StaticRow[F]) *Composite[Tuple6[A, B, C, D, E, F]] {
	out := NewComposite[Tuple6[A, B, C, D, E, F]]()
	Slot(out, a, func(t *Tuple6[A, B, C, D, E, F]) *A { return &t.V0 })
	Slot(out, b, func(t *Tuple6[A, B, C, D, E, F]) *B { return &t.V1 })
	Slot(out, c, func(t *Tuple6[A, B, C, D, E, F]) *C { return &t.V2 })
	Slot(out, d, func(t *Tuple6[A, B, C, D, E, F]) *D { return &t.V3 })
	Slot(out, e, func(t *Tuple6[A, B, C, D, E, F]) *E { return &t.V4 })
	Slot(out, f, func(t *Tuple6[A, B, C, D, E, F]) *F { return &t.V5 })
	return out
}

func T7[A, B, C, D, E, F, G any](a StaticRow[A], b StaticRow[B], c StaticRow[C], d StaticRow[D], e StaticRow[E], f StaticRow[F], g StaticRow[G]) *Composite[Tuple7[A, B, C, D, E, F, G]] {
	out := NewComposite[Tuple7[A, B, C, D, E, F, G]]()
	Slot(out, a, func(t *Tuple7[A, B, C, D, E, F, G]) *A { return &t.V0 })
	Slot(out, b, func(t *Tuple7[A, B, C, D, E, F, G]) *B { return &t.V1 })
	Slot(out, c, func(t *Tuple7[A, B, C, D, E, F, G]) *C { return &t.V2 })
	Slot(out, d, func(t *Tuple7[A, B, C, D, E, F, G]) *D { return &t.V3 })
	Slot(out, e, func(t *Tuple7[A, B, C, D, E, F, G]) *E { return &t.V4 })
	Slot(out, f, func(t *Tuple7[A, B, C, D, E, F, G]) *F { return &t.V5 })
	Slot(out, g, func(t *Tuple7[A, B, C, D, E, F, G]) *G { return &t.V6 })
	return out
}

func T8[A, B, C, D, E, F, G, H any](a StaticRow[A], b StaticRow[B], c StaticRow[C], d StaticRow[D], e StaticRow[E], f StaticRow[F], g StaticRow[G], h StaticRow[H]) *Composite[Tuple8[A, B, C, D, E, F, G, H]] {
	out := NewComposite[Tuple8[A, B, C, D, E, F, G, H]]()
	Slot(out, a, func(t *Tuple8[A, B, C, D, E, F, G, H]) *A { return &t.V0 })
	Slot(out, b, func(t *Tuple8[A, B, C, D, E, F, G, H]) *B { return &t.V1 })
	Slot(out, c, func(t *Tuple8[A, B, C, D, E, F, G, H]) *C { return &t.V2 })
	Slot(out, d, func(t *Tuple8[A, B, C, D, E, F, G, H]) *D { return &t.V3 })
	Slot(out, e, func(t *Tuple8[A, B, C, D, E, F, G, H]) *E { return &t.V4 })
	Slot(out, f, func(t *Tuple8[A, B, C, D, E, F, G, H]) *F { return &t.V5 })
	Slot(out, g, func(t *Tuple8[A, B, C, D, E, F, G, H]) *G { return &t.V6 })
	Slot(out, h, func(t *Tuple8[A, B, C, D, E, F, G, H]) *H { return &t.V7 })
	return out
}
