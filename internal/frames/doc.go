// Package frames turns a route directory into an ordered slice of decoded,
// normalized frames.
//
// Frame files carry their position in the route as the last run of digits in
// the file stem. ListNames and SortNames enumerate and order them numerically,
// Loader decodes them into float RGB tensors, and Geometry describes the hood
// and border crop applied before scoring and display.
package frames
