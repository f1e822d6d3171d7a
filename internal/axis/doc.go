// Package axis provides binned 1-D axes for energy and field-of-view offset.
//
// This package contains foundational types only. All other internal packages
// import axis; axis imports nothing internal. An Axis is immutable after
// construction, so values can be shared freely between observations, stacked
// response functions, and background models.
//
// Conventions:
//   - Energy axes are in TeV, offset axes in degrees. The Axis itself is
//     unit-agnostic; the unit is fixed by the constructor used at the call
//     site.
//   - Bins are half-open intervals [lower, upper). A value equal to the last
//     upper edge is outside the axis.
//   - Equality is exact edge equality. Stacking requires identical binning,
//     not approximately equal binning.
package axis
