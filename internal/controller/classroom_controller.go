package controller

import (
	"classroom_backend/internal/service"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ClassroomController struct {
	ClassroomService *service.ClassroomService
}

func NewClassroomController(classroomService *service.ClassroomService) *ClassroomController {
	return &ClassroomController{ClassroomService: classroomService}
}

func courseAndLesson(ctx *gin.Context) (uint, uint, bool) {
	courseID, ok := util.ParamUint(ctx, "courseId")
	if !ok {
		util.BadRequest(ctx, "无效的课程ID")
		return 0, 0, false
	}
	lessonID, ok := util.ParamUint(ctx, "lessonId")
	if !ok {
		util.BadRequest(ctx, "无效的课时ID")
		return 0, 0, false
	}
	return courseID, lessonID, true
}

// ShowLesson godoc
// @Summary 学生查看课时
// @Description 未完成的标准测验不返回正确答案
// @Tags 课堂
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param lessonId path int true "课时ID"
// @Success 200 {object} util.Response{data=service.LearnerLesson} "成功"
// @Failure 403 {object} util.Response "未选课"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/classroom/courses/{courseId}/lessons/{lessonId} [get]
func (c *ClassroomController) ShowLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, lessonID, ok := courseAndLesson(ctx)
	if !ok {
		return
	}

	view, err := c.ClassroomService.ShowLesson(ctx.Request.Context(), user.UserID, courseID, lessonID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// CourseProgress godoc
// @Summary 课程学习进度
// @Tags 课堂
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseProgress} "成功"
// @Failure 403 {object} util.Response "未选课"
// @Router /api/classroom/courses/{courseId}/progress [get]
func (c *ClassroomController) CourseProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := util.ParamUint(ctx, "courseId")
	if !ok {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	progress, err := c.ClassroomService.CourseProgress(ctx.Request.Context(), user.UserID, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// AnswerQuiz godoc
// @Summary 提交标准测验
// @Description 按题目 id 匹配答案计分，重复提交覆盖之前的成绩
// @Tags 课堂
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param lessonId path int true "课时ID"
// @Param request body service.SubmitQuizRequest true "答案列表"
// @Success 200 {object} util.Response{data=service.QuizResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "未选课"
// @Failure 404 {object} util.Response "课时不存在"
// @Failure 422 {object} util.Response "课时不是标准测验"
// @Router /api/classroom/courses/{courseId}/lessons/{lessonId}/answer-quiz [patch]
func (c *ClassroomController) AnswerQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, lessonID, ok := courseAndLesson(ctx)
	if !ok {
		return
	}

	var req service.SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ClassroomService.SubmitQuiz(ctx.Request.Context(), user.UserID, courseID, lessonID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// AnswerPersonalityQuiz godoc
// @Summary 提交性格测验
// @Description 每个答案都必须选择选项，返回每个特质 0-100 的得分
// @Tags 课堂
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param lessonId path int true "课时ID"
// @Param request body service.SubmitQuizRequest true "答案列表"
// @Success 200 {object} util.Response{data=service.PersonalityResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "未选课"
// @Failure 404 {object} util.Response "课时不存在"
// @Failure 422 {object} util.Response "课时不是性格测验"
// @Router /api/classroom/courses/{courseId}/lessons/{lessonId}/answer-personality-quiz [patch]
func (c *ClassroomController) AnswerPersonalityQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, lessonID, ok := courseAndLesson(ctx)
	if !ok {
		return
	}

	var req service.SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ClassroomService.SubmitPersonalityQuiz(ctx.Request.Context(), user.UserID, courseID, lessonID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// MarkComplete godoc
// @Summary 标记普通课时完成
// @Tags 课堂
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param lessonId path int true "课时ID"
// @Success 200 {object} util.Response "成功"
// @Failure 422 {object} util.Response "测验课时需要提交答案"
// @Router /api/classroom/courses/{courseId}/lessons/{lessonId}/complete [patch]
func (c *ClassroomController) MarkComplete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, lessonID, ok := courseAndLesson(ctx)
	if !ok {
		return
	}

	if err := c.ClassroomService.MarkComplete(ctx.Request.Context(), user.UserID, courseID, lessonID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Lesson marked as completed"})
}
