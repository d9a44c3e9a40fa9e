// Package acquire produces sensor readings for the dispatcher.
//
// The hardware protocol lives outside this daemon; acquire offers a
// small Source boundary with two implementations: a simulated
// random-walk generator for development and a line-feed parser that
// consumes sensorID,rawValue[,signal] records from a reader such as
// stdin. The configured sensor registry maps incoming internal IDs onto
// their metadata and calibration.
package acquire
