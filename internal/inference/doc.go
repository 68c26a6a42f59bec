// Package inference scores route frames with the traffic classifier.
//
// Classifier is the opaque batch_predict boundary: frames in, one probability
// vector per frame out. Client implements it against a TensorFlow Serving
// style REST endpoint. Adapter applies the model crop, calls the classifier
// once per route, and validates the shape of the answer. Nothing here retries;
// a failed route is reported to the caller and left for a later run.
package inference
