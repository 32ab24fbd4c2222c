// Package fn provides the built-in function vocabulary that compiles to
// Datalog function-call expressions: func_name(arg1, arg2, ...). Grounded
// on functions.py's 53 constructors, grouped the same way: distance,
// vector ops, LSH, quantization, int8 distance, temporal, math, string,
// conversion, and direct HNSW search.
package fn

import "github.com/inputlayer/inputlayer-go/dlast"

func e(v dlast.Expr) dlast.Expr { return v }

func call(name string, args ...dlast.Expr) dlast.FuncCall {
	return dlast.FuncCall{Name: name, Args: args}
}

// ── Distance ────────────────────────────────────────────────────────────

func Euclidean(v1, v2 dlast.Expr) dlast.FuncCall { return call("euclidean", e(v1), e(v2)) }
func Cosine(v1, v2 dlast.Expr) dlast.FuncCall     { return call("cosine", e(v1), e(v2)) }
func Dot(v1, v2 dlast.Expr) dlast.FuncCall        { return call("dot", e(v1), e(v2)) }
func Manhattan(v1, v2 dlast.Expr) dlast.FuncCall  { return call("manhattan", e(v1), e(v2)) }

// ── Vector Operations ───────────────────────────────────────────────────

func Normalize(v dlast.Expr) dlast.FuncCall       { return call("normalize", e(v)) }
func VecDim(v dlast.Expr) dlast.FuncCall          { return call("vec_dim", e(v)) }
func VecAdd(v1, v2 dlast.Expr) dlast.FuncCall     { return call("vec_add", e(v1), e(v2)) }
func VecScale(v, s dlast.Expr) dlast.FuncCall     { return call("vec_scale", e(v), e(s)) }

// ── LSH ──────────────────────────────────────────────────────────────────

func LSHBucket(v, tableIdx, numHP dlast.Expr) dlast.FuncCall {
	return call("lsh_bucket", e(v), e(tableIdx), e(numHP))
}

func LSHProbes(bucket, numHP, numProbes dlast.Expr) dlast.FuncCall {
	return call("lsh_probes", e(bucket), e(numHP), e(numProbes))
}

func LSHMultiProbe(v, tableIdx, numHP, numProbes dlast.Expr) dlast.FuncCall {
	return call("lsh_multi_probe", e(v), e(tableIdx), e(numHP), e(numProbes))
}

// ── Quantization ─────────────────────────────────────────────────────────

func QuantizeLinear(v dlast.Expr) dlast.FuncCall    { return call("quantize_linear", e(v)) }
func QuantizeSymmetric(v dlast.Expr) dlast.FuncCall { return call("quantize_symmetric", e(v)) }
func Dequantize(v dlast.Expr) dlast.FuncCall        { return call("dequantize", e(v)) }
func DequantizeScaled(v, s dlast.Expr) dlast.FuncCall {
	return call("dequantize_scaled", e(v), e(s))
}

// ── Int8 Distance ────────────────────────────────────────────────────────

func EuclideanInt8(v1, v2 dlast.Expr) dlast.FuncCall { return call("euclidean_int8", e(v1), e(v2)) }
func CosineInt8(v1, v2 dlast.Expr) dlast.FuncCall    { return call("cosine_int8", e(v1), e(v2)) }
func DotInt8(v1, v2 dlast.Expr) dlast.FuncCall       { return call("dot_int8", e(v1), e(v2)) }
func ManhattanInt8(v1, v2 dlast.Expr) dlast.FuncCall { return call("manhattan_int8", e(v1), e(v2)) }

// ── Temporal ─────────────────────────────────────────────────────────────

func TimeNow() dlast.FuncCall { return call("time_now") }

func TimeDiff(t1, t2 dlast.Expr) dlast.FuncCall { return call("time_diff", e(t1), e(t2)) }
func TimeAdd(ts, dur dlast.Expr) dlast.FuncCall { return call("time_add", e(ts), e(dur)) }
func TimeSub(ts, dur dlast.Expr) dlast.FuncCall { return call("time_sub", e(ts), e(dur)) }

func TimeDecay(ts, now, halfLife dlast.Expr) dlast.FuncCall {
	return call("time_decay", e(ts), e(now), e(halfLife))
}

func TimeDecayLinear(ts, now, maxAge dlast.Expr) dlast.FuncCall {
	return call("time_decay_linear", e(ts), e(now), e(maxAge))
}

func TimeBefore(t1, t2 dlast.Expr) dlast.FuncCall { return call("time_before", e(t1), e(t2)) }
func TimeAfter(t1, t2 dlast.Expr) dlast.FuncCall  { return call("time_after", e(t1), e(t2)) }

func TimeBetween(ts, start, end dlast.Expr) dlast.FuncCall {
	return call("time_between", e(ts), e(start), e(end))
}

func WithinLast(ts, now, dur dlast.Expr) dlast.FuncCall {
	return call("within_last", e(ts), e(now), e(dur))
}

func IntervalsOverlap(s1, e1, s2, e2 dlast.Expr) dlast.FuncCall {
	return call("intervals_overlap", e(s1), e(e1), e(s2), e(e2))
}

func IntervalContains(s1, e1, s2, e2 dlast.Expr) dlast.FuncCall {
	return call("interval_contains", e(s1), e(e1), e(s2), e(e2))
}

func IntervalDuration(s, end dlast.Expr) dlast.FuncCall {
	return call("interval_duration", e(s), e(end))
}

func PointInInterval(ts, s, end dlast.Expr) dlast.FuncCall {
	return call("point_in_interval", e(ts), e(s), e(end))
}

// ── Math ─────────────────────────────────────────────────────────────────

func Abs(x dlast.Expr) dlast.FuncCall        { return call("abs", e(x)) }
func AbsInt64(x dlast.Expr) dlast.FuncCall   { return call("abs_int64", e(x)) }
func AbsFloat64(x dlast.Expr) dlast.FuncCall { return call("abs_float64", e(x)) }
func Sqrt(x dlast.Expr) dlast.FuncCall       { return call("sqrt", e(x)) }
func Pow(base, exp dlast.Expr) dlast.FuncCall { return call("pow", e(base), e(exp)) }
func Log(x dlast.Expr) dlast.FuncCall        { return call("log", e(x)) }
func Exp(x dlast.Expr) dlast.FuncCall        { return call("exp", e(x)) }
func Sin(x dlast.Expr) dlast.FuncCall        { return call("sin", e(x)) }
func Cos(x dlast.Expr) dlast.FuncCall        { return call("cos", e(x)) }
func Tan(x dlast.Expr) dlast.FuncCall        { return call("tan", e(x)) }
func Floor(x dlast.Expr) dlast.FuncCall      { return call("floor", e(x)) }
func Ceil(x dlast.Expr) dlast.FuncCall       { return call("ceil", e(x)) }
func Sign(x dlast.Expr) dlast.FuncCall       { return call("sign", e(x)) }
func MinVal(a, b dlast.Expr) dlast.FuncCall  { return call("min_val", e(a), e(b)) }
func MaxVal(a, b dlast.Expr) dlast.FuncCall  { return call("max_val", e(a), e(b)) }

// ── String ───────────────────────────────────────────────────────────────

func Len(s dlast.Expr) dlast.FuncCall   { return call("len", e(s)) }
func Upper(s dlast.Expr) dlast.FuncCall { return call("upper", e(s)) }
func Lower(s dlast.Expr) dlast.FuncCall { return call("lower", e(s)) }
func Trim(s dlast.Expr) dlast.FuncCall  { return call("trim", e(s)) }

func Substr(s, start, length dlast.Expr) dlast.FuncCall {
	return call("substr", e(s), e(start), e(length))
}

func Replace(s, find, repl dlast.Expr) dlast.FuncCall {
	return call("replace", e(s), e(find), e(repl))
}

func Concat(args ...dlast.Expr) dlast.FuncCall {
	return dlast.FuncCall{Name: "concat", Args: args}
}

// ── Type Conversion ──────────────────────────────────────────────────────

func ToFloat(x dlast.Expr) dlast.FuncCall { return call("to_float", e(x)) }
func ToInt(x dlast.Expr) dlast.FuncCall   { return call("to_int", e(x)) }

// ── HNSW Direct ──────────────────────────────────────────────────────────

// HnswNearest builds a direct HNSW nearest-neighbor call:
//
//	hnsw_nearest("idx", [0.1, 0.2], 10)
//	hnsw_nearest("idx", [0.1, 0.2], 10, 64)   // with efSearch override
//
// efSearch is optional; pass nil to omit it.
func HnswNearest(indexName string, queryVec dlast.Expr, k int, efSearch *int) dlast.FuncCall {
	args := []dlast.Expr{
		dlast.StringLiteral(indexName),
		e(queryVec),
		dlast.IntLiteral(int64(k)),
	}
	if efSearch != nil {
		args = append(args, dlast.IntLiteral(int64(*efSearch)))
	}
	return dlast.FuncCall{Name: "hnsw_nearest", Args: args}
}
