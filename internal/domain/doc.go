// Package domain contains the catalog entities. A Product is generic over
// its key type so embedding applications can choose integer, string or
// UUID keys; concrete product types embed Product and satisfy Entity.
package domain
