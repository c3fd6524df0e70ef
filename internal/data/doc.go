// Package data holds images and chains: the owned, lockable containers around spin configurations.
package data
