// Package solar estimates and compares the solar potential of locations.
//
// A Service combines three providers: long-term irradiance averages, a PV output
// simulator and an hourly radiation forecast. Operations are stateless and
// request-scoped. Provider payloads are normalized and rounded at the output
// boundary, and every failure surfaces as an *Error carrying a Kind.
package solar
