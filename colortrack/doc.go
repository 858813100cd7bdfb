// Package colortrack tracks user-selected objects in a video stream by their hue histograms.
//
// Every frame is converted to HSV inside the region of interest, each object's color model is
// back-projected around its last position and a mean-shift search moves the box to the mode
// of the weight distribution. Objects are addressed by their index in the box list supplied by the caller.
package colortrack
