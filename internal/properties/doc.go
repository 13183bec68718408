// Package properties defines the build property keys gitprops publishes, the Store the
// publisher writes into, and the encoders that render stored properties.
package properties
