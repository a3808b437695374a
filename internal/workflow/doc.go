// Package workflow coordinates queue processing. A single lane pulls
// eligible items one at a time, runs the background-removal stage, and
// records the outcome; failed items re-enter the queue while retries remain.
package workflow
