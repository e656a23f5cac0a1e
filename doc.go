// Package calc implements a calculator for arithmetic expressions over named
// variables, evaluated with extended-precision floating-point numbers.
//
// An expression is parsed once and can then be evaluated for any number of
// variable assignments. The syntax is deliberately small: "+", "-", "*", "/",
// "//" (floor division), and "%" (truncated remainder), with the usual
// precedence, and parentheses for grouping. There are no unary operators, so
// "-1" is not an expression; write "(0-1)" instead.
//
// A token is a maximal run of letters, digits, '.', '_', '\'', and '"'. A
// token made only of digits and dots is a number; anything else is a
// variable name, so "x'", "1x", and "a_b" are all variables.
//
package calc
