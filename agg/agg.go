// Package agg provides constructor functions for the aggregation
// vocabulary: fixed-name AggExpr nodes the compiler knows how to render as
// func<params..., passthrough..., aggregated_or_ordered> (spec §4.4).
package agg

import "github.com/inputlayer/inputlayer-go/dlast"

// Count builds count<col> (or count<> when col is nil, for count(*)).
func Count(col dlast.Expr) dlast.AggExpr {
	return dlast.AggExpr{Func: "count", Column: col}
}

// CountDistinct builds count_distinct<col>.
func CountDistinct(col dlast.Expr) dlast.AggExpr {
	return dlast.AggExpr{Func: "count_distinct", Column: col}
}

// Sum builds sum<col>.
func Sum(col dlast.Expr) dlast.AggExpr {
	return dlast.AggExpr{Func: "sum", Column: col}
}

// Min builds min<col>.
func Min(col dlast.Expr) dlast.AggExpr {
	return dlast.AggExpr{Func: "min", Column: col}
}

// Max builds max<col>.
func Max(col dlast.Expr) dlast.AggExpr {
	return dlast.AggExpr{Func: "max", Column: col}
}

// Avg builds avg<col>.
func Avg(col dlast.Expr) dlast.AggExpr {
	return dlast.AggExpr{Func: "avg", Column: col}
}

// TopK builds top_k<k, passthrough..., order_by[:asc|:desc]>. desc=true
// orders descending, desc=false ascending; the caller always chooses.
func TopK(k int, orderBy dlast.Expr, desc bool, passthrough ...dlast.Expr) dlast.AggExpr {
	return dlast.AggExpr{
		Func:        "top_k",
		Params:      []dlast.Expr{dlast.IntLiteral(int64(k))},
		Passthrough: passthrough,
		OrderColumn: orderBy,
		Desc:        desc,
	}
}

// TopKThreshold builds top_k_threshold<k, threshold, passthrough..., order_by[:asc|:desc]>.
func TopKThreshold(k int, threshold float64, orderBy dlast.Expr, desc bool, passthrough ...dlast.Expr) dlast.AggExpr {
	return dlast.AggExpr{
		Func:        "top_k_threshold",
		Params:      []dlast.Expr{dlast.IntLiteral(int64(k)), dlast.FloatLiteral(threshold)},
		Passthrough: passthrough,
		OrderColumn: orderBy,
		Desc:        desc,
	}
}

// WithinRadius builds within_radius<max_distance, passthrough..., distance[:asc|:desc]>.
// asc=true orders by ascending distance (nearest first); the
// AggExpr's Desc flag is the inverse of asc, matching the source's
// within_radius(..., asc=True) -> AggExpr(desc=not asc) convention.
func WithinRadius(maxDistance float64, distance dlast.Expr, asc bool, passthrough ...dlast.Expr) dlast.AggExpr {
	return dlast.AggExpr{
		Func:        "within_radius",
		Params:      []dlast.Expr{dlast.FloatLiteral(maxDistance)},
		Passthrough: passthrough,
		OrderColumn: distance,
		Desc:        !asc,
	}
}
