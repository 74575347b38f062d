package kafka

// TopicAnalysisEvents carries analysis.completed and analysis.failed events
const TopicAnalysisEvents = "sentiguard.analysis"
