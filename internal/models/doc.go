// Package models defines the data types shared by SnapLocation services:
// captured location records, photo assets and geocoding results.
package models
