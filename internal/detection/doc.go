// Package detection finds UI structure in screenshots: rectangular elements
// such as buttons, panels and input fields, and regions likely to hold text.
//
// # Algorithm Overview
//
// Both detectors share one pipeline:
//
//  1. Edge Detection: grayscale via bild, then a one-pixel forward
//     difference thresholded at 30 grey levels
//  2. Feature Extraction: contour grouping for rectangles, sliding-window
//     edge density for text
//  3. Filtering: drop shapes below the size or confidence thresholds
//
// # Coordinates
//
// Results are screenspace values in the space of the analyzed image, taken
// relative to the image's bounds origin. A result found on a resized
// screenshot can be forwarded or mapped back with its resize metadata.
//
// # Confidence Scores
//
// Scores are in 0.0 to 1.0:
//   - Rectangles: how closely the contour length matches the bounding perimeter
//   - Text regions: edge density near 20% weighted by horizontal structure
//
// # Limitations
//
// These heuristics work best on flat, high-contrast UI. Filled shapes give
// one-pixel edges and score well; thin outlines produce a doubled edge band
// and score lower. Gradients and photographs produce noisy results.
package detection
